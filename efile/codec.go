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

package efile

import (
	"io"

	"github.com/synchrony-db/synchrony/iterstream"
)

// Order is a total order over T: negative if a sorts before b, zero
// if equivalent, positive if a sorts after b.
type Order[T any] func(a, b T) int

// Equal is an equivalence test over T, independent of Order (two
// records can compare equal under Order without being Equal, and
// vice versa, e.g. when Order ignores an attribute map).
type Equal[T any] func(a, b T) bool

// Serializer writes every record an iterator yields to w in the
// caller's wire format. It owns header emission (the first record
// may carry a distinguished "field=value" form; the rest carry
// positional values) — the core only ever calls Serialize once per
// destination and never inspects the bytes it produces.
type Serializer[T any] interface {
	Serialize(it iterstream.Iterator[T], w io.Writer) error
}

// Deserializer parses r (whose content originated at the given
// origin, used only for diagnostics) into a lazy record iterator.
// Implementations must tolerate and optionally skip lines a
// caller-supplied guard predicate flags as non-data (e.g. a track
// header line), and must close r once the returned iterator is
// exhausted or explicitly closed.
type Deserializer[T any] interface {
	Deserialize(r io.ReadCloser, origin string) (iterstream.Iterator[T], error)
}

// Codec bundles the four capabilities the core needs from a caller
// for type T, in place of virtual dispatch: a total order, an
// equivalence test, and a (de)serializer pair. A Codec is plain data
// and is never mutated once handed to a constructor.
type Codec[T any] struct {
	Order        Order[T]
	Equal        Equal[T]
	Serializer   Serializer[T]
	Deserializer Deserializer[T]
}
