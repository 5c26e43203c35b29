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

package syncjoin

import "github.com/synchrony-db/synchrony/iterstream"

// FoldPairwise is the eager pairwise-fold operator: for every (x, y)
// with CanSee(y, x), acc := iter(x, y, acc). xs and ys are assumed
// sorted compatibly with isBefore/canSee.
func FoldPairwise[X, Y, Acc any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], zero Acc, iter func(X, Y, Acc) Acc) Acc {
	return FoldPairwiseLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, zero, iter)
}

// FoldPairwiseLazy is the lazy form of FoldPairwise: it drives x and
// y directly, closing both on return (normal exhaustion is the only
// exit path a fold has, since it has no downstream consumer that
// could close early).
func FoldPairwiseLazy[X, Y, Acc any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], zero Acc, iter func(X, Y, Acc) Acc) Acc {
	d := newDriver(x, y, isBefore, canSee)
	defer d.Close()
	acc := zero
	for {
		xv, group, ok := d.nextGroup()
		if !ok {
			break
		}
		for _, yv := range group {
			acc = iter(xv, yv, acc)
		}
	}
	return acc
}

// FoldGrouped is the eager grouped-fold operator: for each x, once
// the maximal window of visible y has been accumulated, acc :=
// iter(x, ys, acc) fires exactly once.
func FoldGrouped[X, Y, Acc any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], zero Acc, iter func(X, []Y, Acc) Acc) Acc {
	return FoldGroupedLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, zero, iter)
}

// FoldGroupedLazy is the lazy form of FoldGrouped.
func FoldGroupedLazy[X, Y, Acc any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], zero Acc, iter func(X, []Y, Acc) Acc) Acc {
	d := newDriver(x, y, isBefore, canSee)
	defer d.Close()
	acc := zero
	for {
		xv, group, ok := d.nextGroup()
		if !ok {
			break
		}
		acc = iter(xv, group, acc)
	}
	return acc
}
