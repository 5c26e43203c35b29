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

// Package recfmt supplies the tab-delimited record format every
// concrete (de)serializer in this module builds on: one record per
// line, with an optional first-record header carrying "field=value"
// tokens that establishes the column order used by every following,
// purely positional line. It wraps xsv.TsvChopper for the actual
// line-splitting.
package recfmt

import (
	"io"
	"strings"

	"github.com/synchrony-db/synchrony/xsv"
)

// Fields is the column order a header line establishes.
type Fields []string

// Guard reports whether a chopped line should be skipped entirely —
// e.g. a BED "track" declaration line — rather than treated as a
// header or a data row.
type Guard func(fields []string) bool

// Reader pulls tab-delimited rows from r, transparently skipping
// Guard-matched lines and recognizing a single "field=value" header
// line, whose values it returns as the first record's row.
type Reader struct {
	chopper xsv.TsvChopper
	r       io.Reader
	guard   Guard

	header Fields
	lineNr int
}

// NewReader wraps r. guard may be nil to accept every non-header
// line.
func NewReader(r io.Reader, guard Guard) *Reader {
	return &Reader{r: r, guard: guard}
}

// Next returns the next record's fields, skipping guarded lines as
// it goes, or io.EOF once r is exhausted. A header line sets
// Header() and comes back as the row of its values. The returned
// slice is the caller's to keep.
func (rd *Reader) Next() ([]string, error) {
	for {
		fields, err := rd.chopper.GetNext(rd.r)
		if err != nil {
			return nil, err
		}
		rd.lineNr++
		if rd.guard != nil && rd.guard(fields) {
			continue
		}
		if rd.header == nil && isHeaderLine(fields) {
			var values []string
			rd.header, values = parseHeader(fields)
			return values, nil
		}
		return append([]string(nil), fields...), nil
	}
}

// Header returns the field names established by the header line, or
// nil if none has been read yet (or the file carries none).
func (rd *Reader) Header() Fields { return rd.header }

// LineNr returns the 1-based physical line number of the last row
// GetNext consumed, for ParseError wrapping by a caller.
func (rd *Reader) LineNr() int { return rd.lineNr }

func isHeaderLine(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if !strings.Contains(f, "=") {
			return false
		}
	}
	return true
}

func parseHeader(fields []string) (Fields, []string) {
	names := make(Fields, len(fields))
	values := make([]string, len(fields))
	for i, f := range fields {
		if eq := strings.IndexByte(f, '='); eq >= 0 {
			names[i], values[i] = f[:eq], f[eq+1:]
		} else {
			names[i] = f
		}
	}
	return names, values
}

// Writer emits the tab-delimited format: WriteHeader for the first
// record, WriteRow for every subsequent one.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes names[i]=values[i] tokens, tab-joined, as the
// distinguished first line.
func (wr *Writer) WriteHeader(names Fields, values []string) error {
	toks := make([]string, len(values))
	for i, v := range values {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		toks[i] = name + "=" + v
	}
	return wr.writeLine(toks)
}

// WriteRow writes values as a plain tab-joined positional line.
func (wr *Writer) WriteRow(values []string) error {
	return wr.writeLine(values)
}

func (wr *Writer) writeLine(toks []string) error {
	_, err := io.WriteString(wr.w, strings.Join(toks, "\t")+"\n")
	return err
}
