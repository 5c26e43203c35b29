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

package iterstream

import "io"

// sliceSource is a re-readable Source over a materialized slice.
type sliceSource[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a fresh Iterator over items. Calling it more
// than once yields independent cursors over the same backing
// slice, which is what lets efile's InMemory state be iterated
// repeatedly.
func FromSlice[T any](items []T) Iterator[T] {
	return New[T](&sliceSource[T]{items: items})
}

func (s *sliceSource[T]) Advance() (T, error) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, io.EOF
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *sliceSource[T]) Close() error { return nil }

// funcSource adapts a pull function (and an optional closer)
// into a Source; it is how EFile wraps a one-shot Transient
// stream (e.g. a synchrony-algorithm output, or a Deserializer's
// line-by-line reader) without copying it into a slice.
type funcSource[T any] struct {
	advance func() (T, error)
	closeFn func() error
}

// FromFunc builds an Iterator from a pull function and an
// optional close callback (nil is treated as a no-op).
func FromFunc[T any](advance func() (T, error), closeFn func() error) Iterator[T] {
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return New[T](&funcSource[T]{advance: advance, closeFn: closeFn})
}

func (f *funcSource[T]) Advance() (T, error) { return f.advance() }
func (f *funcSource[T]) Close() error        { return f.closeFn() }

// Drain consumes it to completion, calling fn for each record.
// It closes it on every exit path, including a panic raised from
// fn or from it itself.
func Drain[T any](it Iterator[T], fn func(T) error) error {
	defer it.Close()
	for it.HasNext() {
		if err := fn(it.Next()); err != nil {
			return err
		}
	}
	return nil
}

// Collect drains it into a slice. Only safe to call on Iterators
// whose Source is known to fit in memory.
func Collect[T any](it Iterator[T]) ([]T, error) {
	var out []T
	err := Drain(it, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
