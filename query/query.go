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

// Package query supplies the two predicate pairs synchronized
// iteration needs to turn a pair of sorted bed.Record streams into a
// join: Overlaps, for interval intersection (with an optional
// symmetric slop window), and Within, for proximity by distance
// between interval start positions. Both return an (IsBefore, CanSee) pair
// ready to hand to syncjoin's Fold/Map/FlatMap family.
package query

import (
	"github.com/synchrony-db/synchrony/bed"
	"github.com/synchrony-db/synchrony/syncjoin"
)

// IsBefore and CanSee are syncjoin's predicate pair, specialized to
// two bed.Record streams.
type (
	IsBefore = syncjoin.IsBefore[bed.Record, bed.Record]
	CanSee   = syncjoin.CanSee[bed.Record, bed.Record]
)

// Overlaps builds the predicate pair for "x and y's intervals
// intersect," treating x as expanded by window on each side before
// testing intersection — window lets a caller ask for near-misses
// (e.g. window=0 is exact overlap, window=100 also joins features up
// to 100bp apart). Records must be sorted by bed.Order for the
// returned predicates' monotonicity contract to hold.
func Overlaps(window int) (IsBefore, CanSee) {
	isBefore := func(y, x bed.Record) bool {
		if y.Chrom != x.Chrom {
			return y.Chrom < x.Chrom
		}
		return y.End+window <= x.Start
	}
	canSee := func(y, x bed.Record) bool {
		if y.Chrom != x.Chrom {
			return false
		}
		return x.Start-window < y.End && y.Start < x.End+window
	}
	return isBefore, canSee
}

// Within builds the predicate pair for "x and y's start positions
// are no more than bp apart," on the same chromosome. Unlike
// Overlaps it does not require the intervals themselves to
// intersect — two adjacent, non-overlapping peaks within bp of each
// other's start still join.
func Within(bp int) (IsBefore, CanSee) {
	isBefore := func(y, x bed.Record) bool {
		if y.Chrom != x.Chrom {
			return y.Chrom < x.Chrom
		}
		return y.Start+bp < x.Start
	}
	canSee := func(y, x bed.Record) bool {
		if y.Chrom != x.Chrom {
			return false
		}
		d := x.Start - y.Start
		if d < 0 {
			d = -d
		}
		return d <= bp
	}
	return isBefore, canSee
}
