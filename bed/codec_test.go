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
	"bytes"
	"io"
	"testing"

	"github.com/synchrony-db/synchrony/iterstream"
)

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }

func TestRoundTripWithAttrs(t *testing.T) {
	records := []Record{
		{Chrom: "chr1", Start: 10, End: 20, Attrs: map[string]string{"name": "peakA", "score": "900"}},
		{Chrom: "chr1", Start: 30, End: 45, Attrs: map[string]string{"name": "peakB", "score": "500"}},
		{Chrom: "chr2", Start: 5, End: 8, Attrs: map[string]string{"name": "peakC", "score": "100"}},
	}

	var buf bytes.Buffer
	if err := (serializer{}).Serialize(iterstream.FromSlice(records), &buf); err != nil {
		t.Fatal(err)
	}

	it, err := (deserializer{}).Deserialize(nopCloser{bytes.NewReader(buf.Bytes())}, "test")
	if err != nil {
		t.Fatal(err)
	}
	got, err := iterstream.Collect(it)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if !Equal(got[i], records[i]) {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestRoundTripWithoutAttrs(t *testing.T) {
	records := []Record{
		{Chrom: "chr1", Start: 0, End: 100},
		{Chrom: "chr1", Start: 200, End: 300},
	}

	var buf bytes.Buffer
	if err := (serializer{}).Serialize(iterstream.FromSlice(records), &buf); err != nil {
		t.Fatal(err)
	}

	it, err := (deserializer{}).Deserialize(nopCloser{bytes.NewReader(buf.Bytes())}, "test")
	if err != nil {
		t.Fatal(err)
	}
	got, err := iterstream.Collect(it)
	if err != nil {
		t.Fatal(err)
	}
	for i := range records {
		if !Equal(got[i], records[i]) {
			t.Fatalf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestDeserializeSkipsTrackLine(t *testing.T) {
	in := "track name=pairedReads\nchrom=chr1\tstart=10\tend=20\tname=peakA\nchr1\t30\t40\tpeakB\n"
	it, err := (deserializer{}).Deserialize(nopCloser{bytes.NewReader([]byte(in))}, "test")
	if err != nil {
		t.Fatal(err)
	}
	got, err := iterstream.Collect(it)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Attrs["name"] != "peakA" || got[1].Attrs["name"] != "peakB" {
		t.Fatalf("unexpected attrs: %+v %+v", got[0], got[1])
	}
}

func TestRoundTripEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	if err := (serializer{}).Serialize(iterstream.FromSlice[Record](nil), &buf); err != nil {
		t.Fatal(err)
	}
	it, err := (deserializer{}).Deserialize(nopCloser{bytes.NewReader(buf.Bytes())}, "test")
	if err != nil {
		t.Fatal(err)
	}
	if it.HasNext() {
		t.Fatal("expected no records")
	}
	if err := it.Close(); err != nil && err != io.EOF {
		t.Fatal(err)
	}
}
