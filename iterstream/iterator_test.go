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

import (
	"io"
	"reflect"
	"testing"
)

func TestHasNextNext(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	var got []int
	for it.HasNext() {
		got = append(got, it.Next())
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestHeadDoesNotConsume(t *testing.T) {
	it := FromSlice([]int{10, 20})
	v, ok := it.Head()
	if !ok || v != 10 {
		t.Fatalf("Head() = %v, %v", v, ok)
	}
	v, ok = it.Head()
	if !ok || v != 10 {
		t.Fatalf("second Head() = %v, %v", v, ok)
	}
	if it.Next() != 10 {
		t.Fatal("Next() should still yield the peeked element")
	}
	if it.Next() != 20 {
		t.Fatal("Next() should yield the remaining element")
	}
}

func TestPeekAhead(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	if v, ok := it.PeekAhead(2); !ok || v != 2 {
		t.Fatalf("PeekAhead(2) = %v, %v", v, ok)
	}
	if _, ok := it.PeekAhead(5); ok {
		t.Fatal("PeekAhead(5) should report false with only 3 items")
	}
	// peeking must not have consumed anything
	got, _ := Collect[int](it)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("got %v", got)
	}
}

func TestLookaheadIsNonDestructive(t *testing.T) {
	it := FromSlice([]int{1, 2, 3, 4})
	win := it.Lookahead(2)
	if !reflect.DeepEqual(win, []int{1, 2}) {
		t.Fatalf("lookahead = %v", win)
	}
	got, _ := Collect[int](it)
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Fatalf("Next() stream after Lookahead = %v", got)
	}
}

func TestLookaheadShortOfK(t *testing.T) {
	it := FromSlice([]int{1})
	win := it.Lookahead(5)
	if !reflect.DeepEqual(win, []int{1}) {
		t.Fatalf("lookahead = %v", win)
	}
}

func TestNextOnEmptyPanics(t *testing.T) {
	it := FromSlice([]int{})
	defer func() {
		if recover() == nil {
			t.Fatal("expected Next on empty iterator to panic")
		}
	}()
	it.Next()
}

func TestCloseIdempotent(t *testing.T) {
	closes := 0
	it := FromFunc(func() (int, error) { return 0, io.EOF }, func() error {
		closes++
		return nil
	})
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
	if closes != 1 {
		t.Fatalf("underlying Source.Close called %d times, want 1", closes)
	}
}
