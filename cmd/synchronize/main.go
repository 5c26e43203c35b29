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

// Command synchronize external-sorts two sets of BED files and
// streams their interval overlap join to stdout, one tab-delimited
// "chrom\tstart\tend\tpeer_start\tpeer_end" line per joined pair.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/synchrony-db/synchrony/bed"
	"github.com/synchrony-db/synchrony/config"
	"github.com/synchrony-db/synchrony/efile"
	"github.com/synchrony-db/synchrony/extsort"
	"github.com/synchrony-db/synchrony/fsutil"
	"github.com/synchrony-db/synchrony/iterstream"
	"github.com/synchrony-db/synchrony/query"
	"github.com/synchrony-db/synchrony/syncjoin"
)

func main() {
	window := flag.Int("window", 0, "slop window in bp added to each landmark interval before testing overlap")
	debug := flag.Bool("v", false, "enable verbose extsort logging")
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: synchronize [-window bp] <landmarks.bed glob> <experiments.bed glob>")
		os.Exit(2)
	}

	config.SetGlobal(config.GlobalConfig{Debug: *debug})
	tuning := config.Default()

	landmarks, err := loadSorted(args[0], tuning)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading landmarks: %s\n", err)
		os.Exit(1)
	}
	defer landmarks.Destruct()

	experiments, err := loadSorted(args[1], tuning)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading experiments: %s\n", err)
		os.Exit(1)
	}
	defer experiments.Destruct()

	xIt, err := landmarks.Iterator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening landmarks: %s\n", err)
		os.Exit(1)
	}
	yIt, err := experiments.Iterator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening experiments: %s\n", err)
		os.Exit(1)
	}

	isBefore, canSee := query.Overlaps(*window)
	out := bufio.NewWriter(os.Stdout)
	joined := syncjoin.MapPairwiseLazy(xIt, yIt, isBefore, canSee, func(x, y bed.Record) string {
		return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", x.Chrom, x.Start, x.End, y.Start, y.End)
	})
	err = iterstream.Drain(joined, func(line string) error {
		_, err := fmt.Fprintln(out, line)
		return err
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "joining: %s\n", err)
		os.Exit(1)
	}
	if err := out.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSorted resolves pattern against the current directory,
// concatenates every matched file's records into one stream, and
// external-sorts the result by bed.Order — regardless of whether
// the matched files were individually sorted already.
func loadSorted(pattern string, tuning config.Tuning) (efile.EFile[bed.Record], error) {
	matches, err := fsutil.OpenGlob(os.DirFS("."), pattern)
	if err != nil {
		return efile.EFile[bed.Record]{}, err
	}
	if len(matches) == 0 {
		return efile.EFile[bed.Record]{}, fmt.Errorf("no files matched %q", pattern)
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path()
		m.Close()
	}

	codec := bed.Codec()
	sources := make([]*efile.EFile[bed.Record], len(paths))
	for i, p := range paths {
		f := efile.OnDisk(p, codec, tuning)
		sources[i] = &f
	}
	combined, err := chainFiles(sources, codec, tuning)
	if err != nil {
		return efile.EFile[bed.Record]{}, err
	}
	return extsort.Sort(&combined, bed.Order)
}

// chainFiles wraps every file's C2 iterator into a single Transient
// EFile that reads them back to back, closing each as it's
// exhausted.
func chainFiles(files []*efile.EFile[bed.Record], codec efile.Codec[bed.Record], tuning config.Tuning) (efile.EFile[bed.Record], error) {
	iters := make([]iterstream.Iterator[bed.Record], len(files))
	for i, f := range files {
		it, err := f.Iterator()
		if err != nil {
			for _, opened := range iters[:i] {
				opened.Close()
			}
			return efile.EFile[bed.Record]{}, err
		}
		iters[i] = it
	}
	pos := 0
	stream := iterstream.FromFunc(func() (bed.Record, error) {
		for pos < len(iters) {
			if iters[pos].HasNext() {
				return iters[pos].Next(), nil
			}
			iters[pos].Close()
			pos++
		}
		var zero bed.Record
		return zero, io.EOF
	}, func() error {
		for ; pos < len(iters); pos++ {
			iters[pos].Close()
		}
		return nil
	})
	return efile.Transient(stream, codec, tuning), nil
}
