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

// Package bed supplies the one concrete domain record the core
// treats as opaque: a BED-style genomic interval with an optional
// attribute map, plus the Order/Equal/Serializer/Deserializer
// capability bundle efile.Codec needs to host it.
package bed

import (
	"sort"

	"github.com/synchrony-db/synchrony/ints"
)

// Record is a single BED interval: a chromosome (or contig) name, a
// half-open [Start, End) position on it, and any additional named
// columns the source track carried.
type Record struct {
	Chrom string
	Start int
	End   int
	Attrs map[string]string
}

// Interval returns r's position as a half-open ints.Interval,
// independent of which chromosome it is on.
func (r Record) Interval() ints.Interval {
	return ints.Interval{Start: r.Start, End: r.End}
}

// Order is the natural BED sort order: by chromosome, then by start,
// then by end.
func Order(a, b Record) int {
	if a.Chrom != b.Chrom {
		if a.Chrom < b.Chrom {
			return -1
		}
		return 1
	}
	if a.Start != b.Start {
		return a.Start - b.Start
	}
	return a.End - b.End
}

// Equal tests full equivalence, including the attribute map.
func Equal(a, b Record) bool {
	if a.Chrom != b.Chrom || a.Start != b.Start || a.End != b.End {
		return false
	}
	return attrsEqual(a.Attrs, b.Attrs)
}

func attrsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// sortedKeys returns attrs' keys in sorted order, so the header
// column order a file is serialized with is deterministic across
// runs.
func sortedKeys(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
