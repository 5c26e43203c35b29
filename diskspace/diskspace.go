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

// Package diskspace reports free space on the filesystem backing a
// temp root, so EFile's spill path can fail fast with a clear error
// instead of letting a partially written run die mid-write.
package diskspace

// Free returns the number of bytes free for unprivileged use on the
// filesystem containing path. The concrete lookup is platform-specific.
func Free(path string) (uint64, error) {
	return free(path)
}

// Sufficient reports whether at least need bytes are free at path.
// A lookup failure is treated as "not sufficient," never as a panic
// — a caller that can't determine free space should fall back to
// attempting the spill and handling ENOSPC from the write itself.
func Sufficient(path string, need uint64) bool {
	avail, err := Free(path)
	if err != nil {
		return false
	}
	return avail >= need
}
