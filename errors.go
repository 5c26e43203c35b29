// Copyright (C) 2022 Synchrony Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package synchrony is the root package of the externalized
// collection engine and synchronized-iteration library. It holds
// only the error taxonomy shared by its subpackages (config,
// iterstream, efile, extsort, syncjoin, recfmt); the
// engine itself lives in those subpackages.
package synchrony

import (
	"errors"
	"strconv"
)

var (
	// ErrFileNotFound is returned when an OnDisk EFile's path
	// no longer refers to a regular file.
	ErrFileNotFound = errors.New("synchrony: file not found")
	// ErrCannotSave is returned when SavedAs fails to rename
	// a serialized file into place.
	ErrCannotSave = errors.New("synchrony: cannot save file")
	// ErrTransientConsumed is returned by operations that
	// require re-reading a Transient EFile that has already
	// been iterated once.
	ErrTransientConsumed = errors.New("synchrony: transient EFile already consumed")
	// ErrInsufficientDiskSpace is returned when a spill's
	// target filesystem has less free space than its Tuning's
	// MinFreeBytes floor.
	ErrInsufficientDiskSpace = errors.New("synchrony: insufficient disk space for spill")
)

// ParseError wraps an error raised by a caller-supplied
// Deserializer with the 1-based line position at which it
// occurred.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return "synchrony: parse error at line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
