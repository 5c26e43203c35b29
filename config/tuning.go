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

// Package config holds the process-wide and per-pipeline tuning
// knobs that the externalized collection engine (package efile)
// and the external sort/merge (package extsort) read from.
package config

import "github.com/synchrony-db/synchrony/compr"

// Tuning bundles the immutable, non-type-specific options that
// control how an EFile materializes and how external sort sizes
// its runs. A Tuning is plain data: once handed to one of efile's
// constructors it is never mutated by the library.
type Tuning struct {
	// Prefix is prepended to generated temp-file names.
	Prefix string
	// SuffixTmp is appended to spill-file names.
	SuffixTmp string
	// SuffixSav is appended to SavedAs names that don't
	// already carry it.
	SuffixSav string

	// AveSz is a hint for the average serialized record
	// size in bytes, used before sampling has run.
	AveSz int
	// CardCap is the record-count threshold above which
	// Stored() spills a Transient to disk instead of
	// materializing it InMemory.
	CardCap int
	// RamCap is the byte budget for a single in-memory
	// sort run.
	RamCap int64
	// Cap is the default record-count cap for a single
	// sort run; overridden by sampling unless the caller
	// set it explicitly (see CapOverridden).
	Cap int
	// CapOverridden marks Cap as caller-supplied, which
	// disables sampling-driven run sizing.
	CapOverridden bool
	// DoSampling enables peeking SamplingSz records to
	// estimate average serialized size before sizing runs.
	DoSampling bool
	// SamplingSz is the number of records sampled.
	SamplingSz int
	// AlwaysOnDisk makes Stored() spill to disk and extsort's
	// sort output land OnDisk even when the result would fit
	// comfortably in memory.
	AlwaysOnDisk bool
	// Compression selects the codec applied to spill and
	// persisted files; None keeps output byte-for-byte what
	// the caller's serializer produced.
	Compression compr.Name
	// MinFreeBytes is the free-space floor a spill's target
	// filesystem must clear before efile writes the first
	// byte. Zero disables the check.
	MinFreeBytes int64
}

// Default returns the documented default Tuning.
func Default() Tuning {
	return Tuning{
		Prefix:       "synchrony-",
		SuffixTmp:    ".eftmp",
		SuffixSav:    ".efsav",
		AveSz:        1000,
		CardCap:      2000,
		RamCap:       defaultRamCap(),
		Cap:          100_000,
		DoSampling:   true,
		SamplingSz:   30,
		AlwaysOnDisk: false,
		Compression:  compr.None,
	}
}

// WithCap returns a copy of t with Cap set to n and
// CapOverridden set, which disables sampling-driven run
// sizing in extsort.Sort.
func (t Tuning) WithCap(n int) Tuning {
	t.Cap = n
	t.CapOverridden = true
	return t
}

// defaultRamCap picks a RamCap proportional to detected
// system memory when available, falling back to a documented
// 200MB default otherwise.
func defaultRamCap() int64 {
	const specDefault = 200_000_000
	total := systemMemory()
	if total <= 0 {
		return specDefault
	}
	// reserve the large majority of RAM for the host
	// process and anything else sharing the machine;
	// external sort only needs this as an upper bound
	// on a single run, not a working-set target.
	quarter := total / 4
	if quarter < specDefault {
		return specDefault
	}
	return quarter
}
