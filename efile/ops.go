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
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/synchrony-db/synchrony"
	"github.com/synchrony-db/synchrony/compr"
	"github.com/synchrony-db/synchrony/config"
	"github.com/synchrony-db/synchrony/diskspace"
	"github.com/synchrony-db/synchrony/iterstream"
)

// fileStream composes a compression reader/writer with the backing
// *os.File so a single Close releases both, regardless of whether
// the selected codec's own Close touches the file (s2 and the
// none-codec don't; zstd's writer does flush but still leaves the
// file open).
type fileStream struct {
	io.Reader
	io.Writer
	codec io.Closer
	file  *os.File
}

func (s fileStream) Close() error {
	err := s.codec.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func openRead(path string, name compr.Name) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, synchrony.ErrFileNotFound
		}
		return nil, err
	}
	rc, err := compr.NewReader(name, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return fileStream{Reader: rc, codec: rc, file: f}, nil
}

// Iterator returns a fresh C2 iterator over e's current state. For
// Transient, the underlying one-shot source is returned directly and
// the EFile is marked consumed; any later call fails with
// ErrTransientConsumed.
func (e *EFile[T]) Iterator() (iterstream.Iterator[T], error) {
	switch e.tag {
	case tagOnDisk:
		rc, err := openRead(e.path, e.tuning.Compression)
		if err != nil {
			return nil, err
		}
		it, err := e.codec.Deserializer.Deserialize(rc, e.path)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return it, nil
	case tagInMemory:
		return iterstream.FromSlice(e.records), nil
	case tagSlurped:
		rc := io.NopCloser(bytes.NewReader(e.raw))
		return e.codec.Deserializer.Deserialize(rc, e.origin)
	case tagTransient:
		if e.consumed {
			return nil, synchrony.ErrTransientConsumed
		}
		e.consumed = true
		return e.stream, nil
	default:
		panic("efile: invalid tag")
	}
}

// IsEmpty peeks at the first record without consuming it, except
// that — as with any Transient read — obtaining the peek at all
// spends a Transient's single use.
func (e *EFile[T]) IsEmpty() (bool, error) {
	it, err := e.Iterator()
	if err != nil {
		return false, err
	}
	defer it.Close()
	_, ok := it.Head()
	return !ok, nil
}

// Nth returns the n-th (0-based) record. InMemory does this in O(1);
// every other state pays for a scoped iterator walk.
func (e *EFile[T]) Nth(n int) (T, bool, error) {
	var zero T
	if e.tag == tagInMemory {
		if n < 0 || n >= len(e.records) {
			return zero, false, nil
		}
		return e.records[n], true, nil
	}
	it, err := e.Iterator()
	if err != nil {
		return zero, false, err
	}
	defer it.Close()
	for i := 0; it.HasNext(); i++ {
		v := it.Next()
		if i == n {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// Filtered returns a Transient EFile wrapping a filtered view of e.
// Because the result is Transient, reading e itself through the
// returned EFile consumes it exactly once.
func (e *EFile[T]) Filtered(pred func(T) bool) (EFile[T], error) {
	it, err := e.Iterator()
	if err != nil {
		return EFile[T]{}, err
	}
	filtered := iterstream.FromFunc(func() (T, error) {
		for it.HasNext() {
			v := it.Next()
			if pred(v) {
				return v, nil
			}
		}
		var zero T
		return zero, io.EOF
	}, it.Close)
	return Transient(filtered, e.codec, e.tuning), nil
}

// Stored canonicalizes e to a re-readable form: peeks CardCap items
// from the source; if fewer are found and AlwaysOnDisk is false, the
// result materializes InMemory, otherwise it spills to a fresh OnDisk
// file.
func (e *EFile[T]) Stored() (EFile[T], error) {
	if e.tag == tagInMemory || e.tag == tagOnDisk {
		return *e, nil
	}
	it, err := e.Iterator()
	if err != nil {
		return EFile[T]{}, err
	}
	defer it.Close()

	batch := it.Lookahead(e.tuning.CardCap)
	if len(batch) < e.tuning.CardCap && !e.tuning.AlwaysOnDisk {
		records := make([]T, 0, len(batch))
		for _, v := range batch {
			_ = it.Next() // drain what Lookahead previewed
			records = append(records, v)
		}
		return InMemory(records, e.codec, e.tuning), nil
	}
	return e.serializeIterator(it, "")
}

// Slurped canonicalizes an OnDisk EFile whose size is below the
// process SZLimit (or AutoSlurp is set) by reading it whole into
// memory as unparsed bytes. Any other state is returned unchanged.
func (e *EFile[T]) Slurped() (EFile[T], error) {
	path, ok := e.IsOnDisk()
	if !ok {
		return *e, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return EFile[T]{}, synchrony.ErrFileNotFound
		}
		return EFile[T]{}, err
	}
	if fi.Size() >= config.SZLimit() && !config.AutoSlurp() {
		return *e, nil
	}
	rc, err := openRead(path, e.tuning.Compression)
	if err != nil {
		return EFile[T]{}, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return EFile[T]{}, err
	}
	return Slurped(raw, path, e.codec, e.tuning), nil
}

// Serialized canonicalizes e to OnDisk. If e is already OnDisk and
// folder is empty, e is returned unchanged; otherwise the iterator is
// written to a fresh file in folder (or the process temp dir).
func (e *EFile[T]) Serialized(folder string) (EFile[T], error) {
	if path, ok := e.IsOnDisk(); ok && folder == "" {
		return OnDisk(path, e.codec, e.tuning), nil
	}
	it, err := e.Iterator()
	if err != nil {
		return EFile[T]{}, err
	}
	defer it.Close()
	return e.serializeIterator(it, folder)
}

func (e *EFile[T]) serializeIterator(it iterstream.Iterator[T], folder string) (EFile[T], error) {
	dir, err := resolveFolder(folder)
	if err != nil {
		return EFile[T]{}, err
	}
	if e.tuning.MinFreeBytes > 0 && !diskspace.Sufficient(dir, uint64(e.tuning.MinFreeBytes)) {
		return EFile[T]{}, synchrony.ErrInsufficientDiskSpace
	}
	var f *os.File
	if folder == "" {
		f, err = newSpillFile(e.tuning)
	} else {
		f, err = os.CreateTemp(dir, e.tuning.Prefix+"*"+e.tuning.SuffixTmp)
	}
	if err != nil {
		return EFile[T]{}, err
	}
	path := f.Name()
	cwc, err := compr.NewWriter(e.tuning.Compression, f)
	if err != nil {
		f.Close()
		return EFile[T]{}, err
	}
	wc := fileStream{Writer: cwc, codec: cwc, file: f}
	if err := e.codec.Serializer.Serialize(it, wc); err != nil {
		wc.Close()
		os.Remove(path)
		return EFile[T]{}, err
	}
	if err := wc.Close(); err != nil {
		os.Remove(path)
		return EFile[T]{}, err
	}
	return OnDisk(path, e.codec, e.tuning), nil
}

// SavedAs serializes e, then atomically renames the result to
// folder/name[+SuffixSav unless already present], replacing any
// existing file there.
func (e *EFile[T]) SavedAs(name, folder string) (EFile[T], error) {
	serialized, err := e.Serialized("")
	if err != nil {
		return EFile[T]{}, err
	}
	path, _ := serialized.IsOnDisk()
	dest, err := savedPath(name, folder, e.tuning)
	if err != nil {
		return EFile[T]{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return EFile[T]{}, synchrony.ErrCannotSave
	}
	if err := os.Rename(path, dest); err != nil {
		return EFile[T]{}, synchrony.ErrCannotSave
	}
	return OnDisk(dest, e.codec, e.tuning), nil
}

// Destruct best-effort releases e's backing storage: deletes an
// OnDisk or Slurped-origin file, closes a Transient's underlying
// stream. OS errors are swallowed; Destruct is idempotent.
func (e *EFile[T]) Destruct() error {
	switch e.tag {
	case tagOnDisk:
		os.Remove(e.path)
		e.path = ""
	case tagSlurped:
		if e.origin != "" {
			os.Remove(e.origin)
			e.origin = ""
		}
	case tagTransient:
		if !e.consumed {
			e.stream.Close()
			e.consumed = true
		}
	}
	return nil
}

// IsSorted reports whether e's current contents are non-decreasing
// under its codec's Order; returns true on an empty sequence. Note
// this consumes a Transient exactly like any other read.
func (e *EFile[T]) IsSorted() (bool, error) {
	it, err := e.Iterator()
	if err != nil {
		return false, err
	}
	defer it.Close()
	if !it.HasNext() {
		return true, nil
	}
	prev := it.Next()
	for it.HasNext() {
		cur := it.Next()
		if e.codec.Order(prev, cur) > 0 {
			return false, nil
		}
		prev = cur
	}
	return true, nil
}

// HasSameValueAs checks e and other for equivalence, either by a
// same-path shortcut (both OnDisk, identical path) or an
// element-by-element walk using sameElem (falling back to e's
// codec.Equal when sameElem is nil). Per the source this models,
// if forced is false and either side is an unconsumed Transient, the
// check conservatively returns false rather than risk a destructive
// read the caller didn't ask for.
func (e *EFile[T]) HasSameValueAs(other *EFile[T], forced bool, sameElem Equal[T]) (bool, error) {
	if p1, ok1 := e.IsOnDisk(); ok1 {
		if p2, ok2 := other.IsOnDisk(); ok2 && p1 == p2 {
			return true, nil
		}
	}
	if !forced && (e.IsTransient() || other.IsTransient()) {
		return false, nil
	}
	if sameElem == nil {
		sameElem = e.codec.Equal
	}
	it1, err := e.Iterator()
	if err != nil {
		return false, err
	}
	defer it1.Close()
	it2, err := other.Iterator()
	if err != nil {
		return false, err
	}
	defer it2.Close()
	for it1.HasNext() {
		if !it2.HasNext() {
			return false, nil
		}
		if !sameElem(it1.Next(), it2.Next()) {
			return false, nil
		}
	}
	return !it2.HasNext(), nil
}
