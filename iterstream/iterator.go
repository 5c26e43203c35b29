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

// Package iterstream implements the lazy, single-pass record
// cursor (component C2) that the rest of the library is built
// on: a pull-based iterator with a bounded, non-destructive
// lookahead buffer. There is no coroutine or async machinery
// here — suspension happens only at the explicit advance points
// HasNext, Next, Head and PeekAhead, where the underlying Source
// may block on disk I/O.
package iterstream

import (
	"io"

	"golang.org/x/exp/slices"
)

// Source is the minimal one-shot pull interface that a physical
// record stream (a file scanner, a slice cursor, a synchrony
// output) must implement. Advance returns io.EOF once exhausted;
// any other error aborts the stream.
type Source[T any] interface {
	// Advance returns the next record, or io.EOF when the
	// source is exhausted.
	Advance() (T, error)
	// Close releases the source's underlying resource. It
	// must be safe to call more than once.
	Close() error
}

// Iterator is the C2 cursor: single-pass advance, plus a
// restartable bounded preview that does not consume the
// records it returns.
type Iterator[T any] interface {
	// HasNext reports whether Next would succeed. It never
	// consumes a record.
	HasNext() bool
	// Next returns the next record, advancing the cursor. It
	// panics if called when HasNext is false — callers are
	// expected to guard every Next with HasNext; calling Next
	// past the end of the stream panics.
	Next() T
	// Head peeks at the next record without consuming it. The
	// second result is false if the iterator is exhausted.
	Head() (T, bool)
	// PeekAhead returns the k-th upcoming record (1-based: k=1
	// is equivalent to Head) without consuming any record, or
	// false if fewer than k remain.
	PeekAhead(k int) (T, bool)
	// Lookahead returns up to k upcoming records as a snapshot;
	// it is non-destructive, the same records are still
	// returned by subsequent Next calls.
	Lookahead(k int) []T
	// Close releases the underlying Source. Idempotent.
	Close() error
}

// buffered is the sole Iterator implementation: an internal
// bounded FIFO backs PeekAhead/Lookahead, and Next drains it
// before pulling from source.
type buffered[T any] struct {
	source Source[T]
	fifo   []T
	// err holds a non-io.EOF error raised by source.Advance,
	// surfaced the next time a caller tries to advance past
	// the buffered prefix.
	err    error
	closed bool
}

// New wraps source in an Iterator with lookahead/peek support.
func New[T any](source Source[T]) Iterator[T] {
	return &buffered[T]{source: source}
}

// fill ensures the fifo holds at least n records, short of
// exhaustion. It returns the number of records now buffered.
func (b *buffered[T]) fill(n int) int {
	if cap(b.fifo) < n {
		b.fifo = slices.Grow(b.fifo, n-len(b.fifo))
	}
	for len(b.fifo) < n {
		if b.err != nil || b.closed {
			break
		}
		v, err := b.source.Advance()
		if err != nil {
			if err != io.EOF {
				b.err = err
			}
			break
		}
		b.fifo = append(b.fifo, v)
	}
	return len(b.fifo)
}

func (b *buffered[T]) HasNext() bool {
	return b.fill(1) >= 1
}

func (b *buffered[T]) Next() T {
	if b.fill(1) < 1 {
		if b.err != nil {
			panic(b.err)
		}
		panic("iterstream: Next called on exhausted iterator")
	}
	v := b.fifo[0]
	b.fifo = b.fifo[1:]
	return v
}

func (b *buffered[T]) Head() (T, bool) {
	if b.fill(1) < 1 {
		var zero T
		return zero, false
	}
	return b.fifo[0], true
}

func (b *buffered[T]) PeekAhead(k int) (T, bool) {
	if k < 1 {
		var zero T
		return zero, false
	}
	if b.fill(k) < k {
		var zero T
		return zero, false
	}
	return b.fifo[k-1], true
}

func (b *buffered[T]) Lookahead(k int) []T {
	n := b.fill(k)
	if n < k {
		k = n
	}
	out := make([]T, k)
	copy(out, b.fifo[:k])
	return out
}

func (b *buffered[T]) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.source.Close()
}

// With runs fn over it, guaranteeing it is closed on normal
// return, panic, or early return from fn — the scoped
// acquisition discipline required of every path that opens an
// iterator over an OnDisk EFile.
func With[T any](it Iterator[T], fn func(Iterator[T]) error) error {
	defer it.Close()
	return fn(it)
}
