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

// Package compr provides a unified interface wrapping
// third-party streaming compression libraries, selected
// by name, for use on EFile spill and persist paths.
package compr

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Name identifies a supported compression algorithm.
type Name string

const (
	// None performs no compression; NewWriter/NewReader
	// return their argument unmodified.
	None Name = ""
	// S2 selects klauspost/compress/s2, a fast
	// Snappy-compatible codec suited to short-lived
	// spill files written during external sort.
	S2 Name = "s2"
	// Zstd selects klauspost/compress/zstd, a slower
	// but denser codec suited to long-lived files
	// persisted via SavedAs.
	Zstd Name = "zstd"
)

// Valid reports whether name is a recognized compression name.
func (n Name) Valid() bool {
	switch n {
	case None, S2, Zstd:
		return true
	default:
		return false
	}
}

// NewWriter wraps w so that bytes written to the
// returned io.WriteCloser are compressed with the
// named algorithm before reaching w. Callers must
// Close the returned writer to flush trailing output.
func NewWriter(name Name, w io.Writer) (io.WriteCloser, error) {
	switch name {
	case None:
		return nopCloser{w}, nil
	case S2:
		return s2.NewWriter(w), nil
	case Zstd:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("compr: unknown compression %q", name)
	}
}

// NewReader wraps r so that reads from the returned
// io.ReadCloser yield the decompressed form of r's
// contents, which must have been produced by the
// matching NewWriter(name, ...).
func NewReader(name Name, r io.Reader) (io.ReadCloser, error) {
	switch name {
	case None:
		return io.NopCloser(r), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{zr}, nil
	default:
		return nil, fmt.Errorf("compr: unknown compression %q", name)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// zstdReadCloser adapts *zstd.Decoder.Close (which returns
// nothing) to the io.Closer signature NewReader promises.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}
