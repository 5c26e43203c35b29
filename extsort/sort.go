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
	"bytes"
	"log"
	"sort"

	"github.com/synchrony-db/synchrony/config"
	"github.com/synchrony-db/synchrony/efile"
	"github.com/synchrony-db/synchrony/ints"
	"github.com/synchrony-db/synchrony/iterstream"
)

// Sort externally sorts in under cmp using in's own Tuning.
func Sort[T any](in *efile.EFile[T], cmp efile.Order[T]) (efile.EFile[T], error) {
	return SortWith(in, cmp, in.Tuning())
}

// SortWith externally sorts in under cmp using the given Tuning
// instead of in's own, letting a caller size runs independently of
// how in was constructed.
//
// 1. If do_sampling is set and tuning.Cap was not caller-overridden,
// peek sampling_sz records (non-destructively) and serialize them to
// estimate the cap such that cap*avg_size <= ram_cap.
// 2. Partition the input into contiguous groups of that size; sort
// each group in memory and materialize it as a run (OnDisk if in
// was OnDisk or always_on_disk is set, otherwise the smallest
// sufficient materialization).
// 3. k-way merge the runs into one OnDisk file (unconditionally —
// a multi-run merge is never left as a one-shot Transient) and
// destruct the intermediate run files. A single run skips the
// merge and is returned as-is, already carrying step 2's
// materialization.
func SortWith[T any](in *efile.EFile[T], cmp efile.Order[T], tuning config.Tuning) (efile.EFile[T], error) {
	_, wasOnDisk := in.IsOnDisk()
	onDiskOutput := wasOnDisk || tuning.AlwaysOnDisk

	it, err := in.Iterator()
	if err != nil {
		return efile.EFile[T]{}, err
	}
	defer it.Close()

	if !it.HasNext() {
		return *in, nil
	}

	runSize := estimatedCap(in, it, tuning)
	if config.Debug() {
		log.Printf("extsort: sorting with runSize=%d onDiskOutput=%v", runSize, onDiskOutput)
	}

	codec := in.Codec()
	var runs []*efile.EFile[T]
	cleanup := func() {
		for _, r := range runs {
			r.Destruct()
		}
	}

	for it.HasNext() {
		var group []T
		for len(group) < runSize && it.HasNext() {
			group = append(group, it.Next())
		}
		sort.Slice(group, func(i, j int) bool { return cmp(group[i], group[j]) < 0 })

		batch := efile.Transient(iterstream.FromSlice(group), codec, tuning)
		var materialized efile.EFile[T]
		if onDiskOutput {
			materialized, err = batch.Serialized("")
		} else {
			materialized, err = batch.Stored()
		}
		if err != nil {
			cleanup()
			return efile.EFile[T]{}, err
		}
		runs = append(runs, &materialized)
	}

	if len(runs) == 1 {
		// a single run is already sorted and already carries the
		// required materialization (Serialized above when
		// onDiskOutput, Stored otherwise); merging it with itself
		// would be a no-op pass over the data.
		return *runs[0], nil
	}

	if config.Debug() {
		log.Printf("extsort: merging %d runs", len(runs))
	}
	// The k-way merge of multiple runs always produces one OnDisk
	// file, regardless of onDiskOutput: a merged Transient is
	// one-shot and not re-readable, so it wouldn't be a sufficient
	// materialization of the sort's own output. Passing onDisk=true
	// unconditionally here is what makes Merge serialize its result
	// before returning it.
	merged, err := Merge(cmp, true, runs...)
	cleanup()
	if err != nil {
		return efile.EFile[T]{}, err
	}
	return merged, nil
}

// SortIfNeeded canonicalizes in to a re-readable form, then sorts it
// only if it is not already sorted under cmp.
func SortIfNeeded[T any](in *efile.EFile[T], cmp efile.Order[T]) (efile.EFile[T], error) {
	stored, err := in.Stored()
	if err != nil {
		return efile.EFile[T]{}, err
	}
	sorted, err := stored.IsSorted()
	if err != nil {
		return efile.EFile[T]{}, err
	}
	if sorted {
		return stored, nil
	}
	return Sort(&stored, cmp)
}

// estimatedCap samples up to tuning.SamplingSz records (via
// non-destructive lookahead) and serializes them to estimate average
// record size, deriving a per-run cap such that cap*avg_size does
// not exceed tuning.RamCap. Sampling is skipped, and tuning.Cap used
// as-is, when disabled or when the caller already fixed Cap.
func estimatedCap[T any](in *efile.EFile[T], it iterstream.Iterator[T], tuning config.Tuning) int {
	if !tuning.DoSampling || tuning.CapOverridden {
		return ints.Max(tuning.Cap, 1)
	}
	sample := it.Lookahead(tuning.SamplingSz)
	if len(sample) == 0 {
		return ints.Max(tuning.Cap, 1)
	}
	var buf bytes.Buffer
	if err := in.Codec().Serializer.Serialize(iterstream.FromSlice(sample), &buf); err != nil || buf.Len() == 0 {
		return ints.Max(tuning.Cap, 1)
	}
	avg := buf.Len() / len(sample)
	if avg <= 0 {
		return ints.Max(tuning.Cap, 1)
	}
	estimated := int(tuning.RamCap / int64(avg))
	return ints.Max(estimated, 1)
}
