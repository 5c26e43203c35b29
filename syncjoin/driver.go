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

// Package syncjoin implements component C5, the synchronized
// iteration core: co-traversal of a landmark track Y against one or
// more experiment tracks X under caller-supplied IsBefore/CanSee
// predicates, in a single linear pass with a bounded revisit window.
//
// The package is named for what it does (joining two sorted tracks
// in sync) rather than reusing the module's own name, to keep it
// distinct from the standard library's sync package at import sites.
package syncjoin

import (
	"io"

	"github.com/synchrony-db/synchrony/iterstream"
)

// IsBefore reports whether y's position precedes x's under the
// streams' shared order. The caller must guarantee monotonicity: for
// x ≪ x′ (and any y), IsBefore(y,x) implies IsBefore(y,x′); likewise
// for y ≪ y′.
type IsBefore[X, Y any] func(y Y, x X) bool

// CanSee reports whether y and x are close enough to form a match.
// The caller must guarantee antimonotonicity with IsBefore: if
// IsBefore(y,x) holds and CanSee(y,x) does not, then CanSee(y,x′)
// must not hold for any later x′ either (symmetrically in y). These
// two contracts are what let the driver discard a landmark or an
// experiment element without losing a later match; the driver itself
// never verifies them.
type CanSee[X, Y any] func(y Y, x X) bool

// chain yields prefix, then delegates to rest; it is how the driver
// reseats its buffered window Z in front of a not-yet-exhausted Y
// cursor without materializing the remainder of Y.
func chain[T any](prefix []T, rest iterstream.Iterator[T]) iterstream.Iterator[T] {
	i := 0
	return iterstream.FromFunc(func() (T, error) {
		if i < len(prefix) {
			v := prefix[i]
			i++
			return v, nil
		}
		if rest.HasNext() {
			return rest.Next(), nil
		}
		var zero T
		return zero, io.EOF
	}, rest.Close)
}

// driver is the generic landmark/experiment state machine: it
// maintains live X and Y cursors plus the buffered revisit window Z,
// and assembles exactly the group of landmarks visible to each
// successive experiment element.
type driver[X, Y any] struct {
	x Xcursor[X]
	y iterstream.Iterator[Y]
	z []Y

	isBefore IsBefore[X, Y]
	canSee   CanSee[X, Y]
}

// Xcursor is the experiment-track half of the driver's input: an
// interface with exactly iterstream.Iterator[X]'s method set, named
// here only so the field above reads clearly next to the Y cursor.
type Xcursor[X any] interface{ iterstream.Iterator[X] }

func newDriver[X, Y any](x iterstream.Iterator[X], y iterstream.Iterator[Y], isBefore IsBefore[X, Y], canSee CanSee[X, Y]) *driver[X, Y] {
	return &driver[X, Y]{x: x, y: y, isBefore: isBefore, canSee: canSee}
}

// nextGroup assembles and returns the full set of landmarks visible
// to the next experiment element x, or ok=false once X is exhausted
// or both Y and Z have run dry (no further group can ever form).
func (d *driver[X, Y]) nextGroup() (x X, group []Y, ok bool) {
	for {
		if !d.x.HasNext() {
			return x, nil, false
		}
		if !d.y.HasNext() {
			if len(d.z) == 0 {
				return x, nil, false
			}
			d.y = chain(d.z, d.y)
			d.z = nil
			continue
		}

		xv, _ := d.x.Head()
		yv, _ := d.y.Head()
		before := d.isBefore(yv, xv)
		see := d.canSee(yv, xv)

		switch {
		case before && !see:
			// y can never see any later x either; drop it for good.
			d.y.Next()

		case !see:
			// !before && !see: x has moved past what y can reach.
			// Emit the window accumulated so far for x, then
			// restart the walk for the next x against that same
			// window plus everything still unconsumed in Y
			// (y itself included, since it was never dropped).
			group = append([]Y(nil), d.z...)
			d.y = chain(d.z, d.y)
			d.z = nil
			x = d.x.Next()
			return x, group, true

		default:
			// canSee(y,x): y belongs in x's group. If y is the
			// last element Y has left, we must fire now — buffering
			// it and looping would exhaust Y without ever advancing
			// x, so the driver forces progress here instead.
			if _, hasMore := d.y.PeekAhead(2); hasMore {
				d.z = append(d.z, yv)
				d.y.Next()
				continue
			}
			d.y.Next()
			group = append(append([]Y(nil), d.z...), yv)
			d.y = chain(group, d.y)
			d.z = nil
			x = d.x.Next()
			return x, group, true
		}
	}
}

// Close releases both underlying cursors. Safe to call once the
// driver has been fully drained or abandoned early.
func (d *driver[X, Y]) Close() error {
	err := d.x.Close()
	if yerr := d.y.Close(); err == nil {
		err = yerr
	}
	return err
}
