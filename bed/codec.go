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

package bed

import (
	"io"
	"strconv"

	"github.com/synchrony-db/synchrony"
	"github.com/synchrony-db/synchrony/efile"
	"github.com/synchrony-db/synchrony/iterstream"
	"github.com/synchrony-db/synchrony/recfmt"
)

const (
	colChrom = 0
	colStart = 1
	colEnd   = 2
	numFixed = 3
)

// Codec returns the efile.Codec a caller hands to efile's
// constructors to have an EFile host bed.Record values.
func Codec() efile.Codec[Record] {
	return efile.Codec[Record]{
		Order:        Order,
		Equal:        Equal,
		Serializer:   serializer{},
		Deserializer: deserializer{},
	}
}

// serializer writes chrom/start/end as the three fixed positional
// columns, followed by the attribute keys of the first record
// (sorted) as additional columns.
type serializer struct{}

func (serializer) Serialize(it iterstream.Iterator[Record], w io.Writer) error {
	wr := recfmt.NewWriter(w)
	var keys []string
	wroteHeader := false
	for it.HasNext() {
		rec := it.Next()
		values := rowValues(rec, keys)
		if !wroteHeader {
			keys = sortedKeys(rec.Attrs)
			values = rowValues(rec, keys)
			names := append(recfmt.Fields{"chrom", "start", "end"}, keys...)
			if err := wr.WriteHeader(names, values); err != nil {
				return err
			}
			wroteHeader = true
			continue
		}
		if err := wr.WriteRow(values); err != nil {
			return err
		}
	}
	return nil
}

func rowValues(rec Record, keys []string) []string {
	values := make([]string, numFixed+len(keys))
	values[colChrom] = rec.Chrom
	values[colStart] = strconv.Itoa(rec.Start)
	values[colEnd] = strconv.Itoa(rec.End)
	for i, k := range keys {
		values[numFixed+i] = rec.Attrs[k]
	}
	return values
}

// deserializer parses the tab-delimited form recfmt.Reader yields
// back into Records, resolving attribute columns against whatever
// header recfmt recognized.
type deserializer struct{}

// guardTrackLine skips BED "track ..." declaration lines, which
// recfmt would otherwise take for the header line (a lone
// "track name=..." token contains '=') or for a malformed data row.
// It matches a lone field, with no tab-separated siblings, that
// starts with "track".
func guardTrackLine(fields []string) bool {
	return len(fields) == 1 && len(fields[0]) >= 5 && fields[0][:5] == "track"
}

func (deserializer) Deserialize(r io.ReadCloser, origin string) (iterstream.Iterator[Record], error) {
	rd := recfmt.NewReader(r, guardTrackLine)
	closed := false
	closeOnce := func() error {
		if closed {
			return nil
		}
		closed = true
		return r.Close()
	}
	return iterstream.FromFunc(func() (Record, error) {
		fields, err := rd.Next()
		if err != nil {
			closeOnce()
			return Record{}, err
		}
		rec, perr := parseRow(fields, rd.Header())
		if perr != nil {
			return Record{}, &synchrony.ParseError{Line: rd.LineNr(), Err: perr}
		}
		return rec, nil
	}, closeOnce), nil
}

func parseRow(fields []string, header recfmt.Fields) (Record, error) {
	if len(fields) < numFixed {
		return Record{}, errShortRow(len(fields))
	}
	start, err := strconv.Atoi(fields[colStart])
	if err != nil {
		return Record{}, err
	}
	end, err := strconv.Atoi(fields[colEnd])
	if err != nil {
		return Record{}, err
	}
	rec := Record{Chrom: fields[colChrom], Start: start, End: end}
	if extra := fields[numFixed:]; len(extra) > 0 {
		rec.Attrs = make(map[string]string, len(extra))
		for i, v := range extra {
			key := strconv.Itoa(numFixed + i)
			if numFixed+i < len(header) {
				key = header[numFixed+i]
			}
			rec.Attrs[key] = v
		}
	}
	return rec, nil
}

type errShortRow int

func (n errShortRow) Error() string {
	return "bed: row has " + strconv.Itoa(int(n)) + " fields, want at least " + strconv.Itoa(numFixed)
}
