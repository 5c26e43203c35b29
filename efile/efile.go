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

// Package efile implements the externalized collection engine
// (component C3): a tagged state machine over four physical
// representations of a record sequence — on-disk, in-memory,
// slurped-but-unparsed, and one-shot transient — with the
// materialization policy (Stored, Slurped, Serialized, SavedAs,
// Destruct) that moves a sequence between them.
//
// Dispatch is on the tag, not on an interface: every operation below
// enumerates the four states explicitly rather than through virtual
// methods, mirroring the sum-type discipline the engine this package
// is modeled on uses for the same state machine.
package efile

import (
	"github.com/synchrony-db/synchrony/config"
	"github.com/synchrony-db/synchrony/iterstream"
)

type tag int

const (
	tagOnDisk tag = iota
	tagInMemory
	tagSlurped
	tagTransient
)

// EFile is the externalized collection: exactly one of {OnDisk,
// InMemory, Slurped, Transient} is populated at any time, selected by
// tag. The zero value is not valid; use one of the constructors.
type EFile[T any] struct {
	tag tag

	path string // tagOnDisk

	records []T // tagInMemory

	raw    []byte // tagSlurped
	origin string // tagSlurped: the path the bytes came from

	stream   iterstream.Iterator[T] // tagTransient
	consumed bool                   // tagTransient: true once Iterator() has been called

	codec  Codec[T]
	tuning config.Tuning
}

// OnDisk builds an EFile whose authoritative, re-readable form is
// the serialized file at path.
func OnDisk[T any](path string, codec Codec[T], tuning config.Tuning) EFile[T] {
	return EFile[T]{tag: tagOnDisk, path: path, codec: codec, tuning: tuning}
}

// InMemory builds an EFile fully materialized as records, itself
// re-readable any number of times.
func InMemory[T any](records []T, codec Codec[T], tuning config.Tuning) EFile[T] {
	return EFile[T]{tag: tagInMemory, records: records, codec: codec, tuning: tuning}
}

// Slurped builds an EFile holding a file's raw bytes, read but not
// yet parsed; origin records the path they were read from so the
// Deserializer's diagnostics still mention it when the bytes are
// finally parsed.
func Slurped[T any](raw []byte, origin string, codec Codec[T], tuning config.Tuning) EFile[T] {
	return EFile[T]{tag: tagSlurped, raw: raw, origin: origin, codec: codec, tuning: tuning}
}

// Transient builds a single-consumption EFile wrapping a one-shot
// record source, e.g. the output of a synchrony join or an external
// merge. Any operation on a Transient EFile other than its first
// Iterator() call requires it to first be canonicalized via Stored,
// Slurped, or Serialized.
func Transient[T any](stream iterstream.Iterator[T], codec Codec[T], tuning config.Tuning) EFile[T] {
	return EFile[T]{tag: tagTransient, stream: stream, codec: codec, tuning: tuning}
}

// Codec returns the capability bundle this EFile was constructed
// with.
func (e EFile[T]) Codec() Codec[T] { return e.codec }

// Tuning returns the Tuning this EFile was constructed with.
func (e EFile[T]) Tuning() config.Tuning { return e.tuning }

// IsOnDisk reports whether e is in the OnDisk state, and if so its
// path.
func (e EFile[T]) IsOnDisk() (string, bool) {
	if e.tag == tagOnDisk {
		return e.path, true
	}
	return "", false
}

// IsTransient reports whether e is in the Transient state and has
// not yet had its one-shot iterator taken.
func (e EFile[T]) IsTransient() bool {
	return e.tag == tagTransient && !e.consumed
}
