/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2016 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package tsv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/fsext"
)

// ErrMissingHeadMarker is returned for content that does not start with
// bench.HeadMarker.
var ErrMissingHeadMarker = errors.New("results head marker not found")

var gzipMagic = []byte{0x1f, 0x8b}

// Record is a single parsed line of a results file.
type Record struct {
	Name string
	Mean time.Duration
	// StdDev is in nanoseconds. It is not valid for single sample benchmarks.
	StdDev null.Float
}

// Open opens a results file for reading, transparently decompressing gzipped
// files.
func Open(fs fsext.Fs, name string) (io.ReadCloser, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil || !bytes.Equal(magic, gzipMagic) {
		// too short to be gzipped, Validate reports the rest
		return readCloser{br, f.Close}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not read the gzipped results file %s: %w", name, err)
	}
	return readCloser{gz, func() error {
		_ = gz.Close()
		return f.Close()
	}}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (rc readCloser) Close() error { return rc.closeFn() }

// Validate checks that r starts with bench.HeadMarker.
func Validate(r io.Reader) error {
	head := make([]byte, len(bench.HeadMarker))
	if _, err := io.ReadFull(r, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrMissingHeadMarker
		}
		return err
	}
	if string(head) != bench.HeadMarker {
		return ErrMissingHeadMarker
	}
	return nil
}

// ReadRecords validates r and parses all the records that follow the head
// marker.
func ReadRecords(r io.Reader) ([]Record, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	var records []Record
	scanner := bufio.NewScanner(r)
	for line := 2; scanner.Scan(); line++ {
		text := scanner.Text()
		if text == "" {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

func parseRecord(text string) (Record, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("expected 3 tab separated fields but got %d", len(fields))
	}

	mean, err := time.ParseDuration(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("invalid mean: %w", err)
	}

	rec := Record{Name: fields[0], Mean: mean}
	if fields[2] == "n/a" {
		return rec, nil
	}
	stddev, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "ns"), 64)
	if err != nil || !strings.HasSuffix(fields[2], "ns") {
		return Record{}, fmt.Errorf("invalid standard deviation %q", fields[2])
	}
	rec.StdDev = null.FloatFrom(stddev)
	return rec, nil
}
