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

package recfmt

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestWriteHeaderThenRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	names := Fields{"chrom", "start", "end"}
	if err := w.WriteHeader(names, []string{"chr1", "10", "20"}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRow([]string{"chr1", "30", "40"}); err != nil {
		t.Fatal(err)
	}
	want := "chrom=chr1\tstart=10\tend=20\nchr1\t30\t40\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReaderParsesHeaderThenRows(t *testing.T) {
	in := "chrom=chr1\tstart=10\tend=20\nchr1\t30\t40\n"
	r := NewReader(strings.NewReader(in), nil)

	row1, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(row1, []string{"chr1", "10", "20"}) {
		t.Fatalf("row1 = %v", row1)
	}
	if !reflect.DeepEqual(r.Header(), Fields{"chrom", "start", "end"}) {
		t.Fatalf("header = %v", r.Header())
	}

	row2, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(row2, []string{"chr1", "30", "40"}) {
		t.Fatalf("row2 = %v", row2)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReaderSkipsGuardedLines(t *testing.T) {
	in := "track name=pairedReads\nchr1\t10\t20\n"
	guard := func(fields []string) bool {
		return len(fields) > 0 && strings.HasPrefix(fields[0], "track")
	}
	r := NewReader(strings.NewReader(in), guard)
	row, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(row, []string{"chr1", "10", "20"}) {
		t.Fatalf("row = %v", row)
	}
}

func TestReaderWithoutHeader(t *testing.T) {
	in := "chr1\t10\t20\nchr2\t30\t40\n"
	r := NewReader(strings.NewReader(in), nil)
	var rows [][]string
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, row)
	}
	want := [][]string{{"chr1", "10", "20"}, {"chr2", "30", "40"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %v", rows)
	}
	if r.Header() != nil {
		t.Fatalf("expected no header, got %v", r.Header())
	}
}
