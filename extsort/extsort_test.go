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

package extsort

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/synchrony-db/synchrony/config"
	"github.com/synchrony-db/synchrony/efile"
	"github.com/synchrony-db/synchrony/iterstream"
)

type intSerializer struct{}

func (intSerializer) Serialize(it iterstream.Iterator[int], w io.Writer) error {
	bw := bufio.NewWriter(w)
	for it.HasNext() {
		if _, err := bw.WriteString(strconv.Itoa(it.Next()) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type intDeserializer struct{}

func (intDeserializer) Deserialize(r io.ReadCloser, origin string) (iterstream.Iterator[int], error) {
	sc := bufio.NewScanner(r)
	return iterstream.FromFunc(func() (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, err
		}
		return n, nil
	}, r.Close), nil
}

func intCodec() efile.Codec[int] {
	return efile.Codec[int]{
		Order:        func(a, b int) int { return a - b },
		Equal:        func(a, b int) bool { return a == b },
		Serializer:   intSerializer{},
		Deserializer: intDeserializer{},
	}
}

func collectInts(t *testing.T, e *efile.EFile[int]) []int {
	t.Helper()
	it, err := e.Iterator()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	got, err := iterstream.Collect(it)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func TestSortSmallStaysWithinOneRun(t *testing.T) {
	tuning := config.Default().WithCap(1000)
	in := efile.InMemory([]int{5, 3, 1, 4, 2}, intCodec(), tuning)
	sorted, err := Sort(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	defer sorted.Destruct()
	got := collectInts(t, &sorted)
	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSortSpillsAcrossMultipleRuns(t *testing.T) {
	tuning := config.Default().WithCap(3)
	tuning.AlwaysOnDisk = true
	var values []int
	for i := 20; i > 0; i-- {
		values = append(values, i)
	}
	in := efile.InMemory(values, intCodec(), tuning)
	sorted, err := Sort(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	defer sorted.Destruct()
	if _, ok := sorted.IsOnDisk(); !ok {
		t.Fatal("expected OnDisk output with AlwaysOnDisk set")
	}
	got := collectInts(t, &sorted)
	if !sort.IntsAreSorted(got) {
		t.Fatalf("not sorted: %v", got)
	}
	if len(got) != len(values) {
		t.Fatalf("got %d values, want %d", len(got), len(values))
	}
}

func TestSortMultiRunOutputIsOnDiskEvenWithoutAlwaysOnDisk(t *testing.T) {
	tuning := config.Default().WithCap(2)
	in := efile.InMemory([]int{5, 3, 1, 4, 2}, intCodec(), tuning)
	sorted, err := Sort(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	defer sorted.Destruct()
	if _, ok := sorted.IsOnDisk(); !ok {
		t.Fatal("expected a multi-run sort to always materialize OnDisk")
	}
	got := collectInts(t, &sorted)
	want := []int{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	// OnDisk is re-readable: sorting it again is a no-op that must
	// not fail or lose data.
	again, err := Sort(&sorted, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Destruct()
	if got2 := collectInts(t, &again); len(got2) != len(want) {
		t.Fatalf("re-sort got %d values, want %d", len(got2), len(want))
	}
}

func TestSortOnEmptyInputReturnsEmpty(t *testing.T) {
	tuning := config.Default()
	in := efile.InMemory([]int(nil), intCodec(), tuning)
	sorted, err := Sort(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	if got := collectInts(t, &sorted); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}

func TestMergeOfPresortedRuns(t *testing.T) {
	tuning := config.Default()
	r1 := efile.InMemory([]int{1, 4, 7}, intCodec(), tuning)
	r2 := efile.InMemory([]int{2, 5, 8}, intCodec(), tuning)
	r3 := efile.InMemory([]int{3, 6, 9}, intCodec(), tuning)
	merged, err := Merge(intCodec().Order, false, &r1, &r2, &r3)
	if err != nil {
		t.Fatal(err)
	}
	got := collectInts(t, &merged)
	for i := 1; i <= 9; i++ {
		if got[i-1] != i {
			t.Fatalf("got %v", got)
		}
	}
}

func TestMergeNoInputsErrors(t *testing.T) {
	if _, err := Merge[int](intCodec().Order, false); err != ErrNoInputs {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}
}

func TestSortIfNeededSkipsAlreadySorted(t *testing.T) {
	tuning := config.Default()
	in := efile.InMemory([]int{1, 2, 3}, intCodec(), tuning)
	out, err := SortIfNeeded(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	if got := collectInts(t, &out); strings.Trim(joinInts(got), " ") != "1 2 3" {
		t.Fatalf("got %v", got)
	}
}

func TestSortIfNeededSortsWhenNeeded(t *testing.T) {
	tuning := config.Default()
	in := efile.InMemory([]int{3, 1, 2}, intCodec(), tuning)
	out, err := SortIfNeeded(&in, intCodec().Order)
	if err != nil {
		t.Fatal(err)
	}
	if got := collectInts(t, &out); joinInts(got) != "1 2 3" {
		t.Fatalf("got %v", got)
	}
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
