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

// Package extsort implements component C4, external merge and sort,
// as free functions over *efile.EFile rather than EFile methods —
// Merge and Sort both need to construct and destruct intermediate
// EFiles of the same element type, which would make efile and
// extsort import each other if these lived as EFile methods.
package extsort

import (
	"errors"
	"io"

	"github.com/synchrony-db/synchrony/efile"
	"github.com/synchrony-db/synchrony/heap"
	"github.com/synchrony-db/synchrony/iterstream"
)

// ErrNoInputs is returned by Merge when called with zero inputs.
var ErrNoInputs = errors.New("extsort: merge requires at least one input")

// run tracks one active merge input: its iterator, its current
// unconsumed head, and its original position among the inputs (used
// only to break ties stably when two heads compare equal).
type run[T any] struct {
	it   iterstream.Iterator[T]
	head T
	seq  int
}

// Merge performs a k-way merge of inputs, each assumed pre-sorted
// under cmp. Inputs that turn out empty on first peek are dropped
// and closed immediately. The result is a Transient EFile wrapping
// the merged stream, materialized OnDisk immediately when onDisk is
// true.
func Merge[T any](cmp efile.Order[T], onDisk bool, inputs ...*efile.EFile[T]) (efile.EFile[T], error) {
	if len(inputs) == 0 {
		return efile.EFile[T]{}, ErrNoInputs
	}
	codec := inputs[0].Codec()
	tuning := inputs[0].Tuning()

	less := func(a, b *run[T]) bool {
		if c := cmp(a.head, b.head); c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	}

	var active []*run[T]
	closeAll := func() {
		for _, r := range active {
			r.it.Close()
		}
	}

	for i, in := range inputs {
		var materialized efile.EFile[T]
		var err error
		if onDisk {
			materialized, err = in.Serialized("")
		} else {
			materialized, err = in.Stored()
		}
		if err != nil {
			closeAll()
			return efile.EFile[T]{}, err
		}
		it, err := materialized.Iterator()
		if err != nil {
			closeAll()
			return efile.EFile[T]{}, err
		}
		if !it.HasNext() {
			it.Close()
			continue
		}
		active = append(active, &run[T]{it: it, head: it.Next(), seq: i})
	}
	heap.OrderSlice(active, less)

	stream := iterstream.FromFunc(func() (T, error) {
		if len(active) == 0 {
			var zero T
			return zero, io.EOF
		}
		top := active[0]
		v := top.head
		if top.it.HasNext() {
			top.head = top.it.Next()
			heap.FixSlice(active, 0, less)
		} else {
			top.it.Close()
			heap.PopSlice(&active, less)
		}
		return v, nil
	}, func() error {
		closeAll()
		active = nil
		return nil
	})

	merged := efile.Transient(stream, codec, tuning)
	if onDisk {
		return merged.Serialized("")
	}
	return merged, nil
}
