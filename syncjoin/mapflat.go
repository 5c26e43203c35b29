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

import (
	"io"

	"github.com/synchrony-db/synchrony/iterstream"
)

// MapPairwiseLazy emits iter(x, y) for every (x, y) pair with
// CanSee(y, x), lazily. The returned iterator's Close propagates to
// both x and y, so a consumer that stops early leaves no cursor
// open — downstream closure is honored exactly as upstream closure
// of x and y.
func MapPairwiseLazy[X, Y, R any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, Y) R) iterstream.Iterator[R] {
	d := newDriver(x, y, isBefore, canSee)
	var curX X
	var curGroup []Y
	var pos int
	return iterstream.FromFunc(func() (R, error) {
		for pos >= len(curGroup) {
			xv, group, ok := d.nextGroup()
			if !ok {
				var zero R
				return zero, io.EOF
			}
			curX, curGroup, pos = xv, group, 0
		}
		yv := curGroup[pos]
		pos++
		return iter(curX, yv), nil
	}, d.Close)
}

// MapPairwise is the eager form of MapPairwiseLazy.
func MapPairwise[X, Y, R any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, Y) R) ([]R, error) {
	it := MapPairwiseLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, iter)
	return iterstream.Collect(it)
}

// FlatMapPairwiseLazy is MapPairwiseLazy where iter returns a slice
// of results per (x, y) pair instead of a single one; the elements
// of every call are flattened into the output stream in order.
func FlatMapPairwiseLazy[X, Y, R any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, Y) []R) iterstream.Iterator[R] {
	d := newDriver(x, y, isBefore, canSee)
	var curX X
	var curGroup []Y
	var groupPos int
	var pending []R
	var pendingPos int
	return iterstream.FromFunc(func() (R, error) {
		for {
			if pendingPos < len(pending) {
				v := pending[pendingPos]
				pendingPos++
				return v, nil
			}
			for groupPos >= len(curGroup) {
				xv, group, ok := d.nextGroup()
				if !ok {
					var zero R
					return zero, io.EOF
				}
				curX, curGroup, groupPos = xv, group, 0
			}
			pending = iter(curX, curGroup[groupPos])
			pendingPos = 0
			groupPos++
		}
	}, d.Close)
}

// FlatMapPairwise is the eager form of FlatMapPairwiseLazy.
func FlatMapPairwise[X, Y, R any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, Y) []R) ([]R, error) {
	it := FlatMapPairwiseLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, iter)
	return iterstream.Collect(it)
}

// MapGroupedLazy emits iter(x, ys) once per x, lazily.
func MapGroupedLazy[X, Y, R any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, []Y) R) iterstream.Iterator[R] {
	d := newDriver(x, y, isBefore, canSee)
	return iterstream.FromFunc(func() (R, error) {
		xv, group, ok := d.nextGroup()
		if !ok {
			var zero R
			return zero, io.EOF
		}
		return iter(xv, group), nil
	}, d.Close)
}

// MapGrouped is the eager form of MapGroupedLazy.
func MapGrouped[X, Y, R any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, []Y) R) ([]R, error) {
	it := MapGroupedLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, iter)
	return iterstream.Collect(it)
}

// FlatMapGroupedLazy is MapGroupedLazy where iter returns a slice of
// results per x instead of a single one.
func FlatMapGroupedLazy[X, Y, R any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, []Y) []R) iterstream.Iterator[R] {
	d := newDriver(x, y, isBefore, canSee)
	var pending []R
	var pendingPos int
	return iterstream.FromFunc(func() (R, error) {
		for pendingPos >= len(pending) {
			xv, group, ok := d.nextGroup()
			if !ok {
				var zero R
				return zero, io.EOF
			}
			pending = iter(xv, group)
			pendingPos = 0
		}
		v := pending[pendingPos]
		pendingPos++
		return v, nil
	}, d.Close)
}

// FlatMapGrouped is the eager form of FlatMapGroupedLazy.
func FlatMapGrouped[X, Y, R any](xs []X, ys []Y, isBefore IsBefore[X, Y], canSee CanSee[X, Y], iter func(X, []Y) []R) ([]R, error) {
	it := FlatMapGroupedLazy(iterstream.FromSlice(xs), iterstream.FromSlice(ys), isBefore, canSee, iter)
	return iterstream.Collect(it)
}
