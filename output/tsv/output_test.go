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
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/fsext"
	"github.com/liuxd6825/k6bench/lib/testutils"
)

func newParams(t *testing.T, fs fsext.Fs, arg string) Params {
	return Params{
		ConfigArgument: arg,
		Logger:         testutils.NewLogger(t),
		FS:             fs,
		StdOut:         &bytes.Buffer{},
	}
}

func TestOutputWithBencher(t *testing.T) {
	t.Parallel()

	for _, fname := range []string{"/results.tsv", "/results.tsv.gz"} {
		fname := fname
		t.Run(fname, func(t *testing.T) {
			t.Parallel()

			fs := fsext.NewMemMapFs()
			out, err := New(newParams(t, fs, fname))
			require.NoError(t, err)
			assert.Equal(t, "tsv ("+fname+")", out.Description())

			b := bench.New().SetIterations(5).WriteOutputTo(out)
			b.Bench("first", func() { time.Sleep(time.Microsecond) })
			b.Bench("second", func() {})
			require.NoError(t, b.Flush())
			require.NoError(t, out.Close())

			r, err := Open(fs, fname)
			require.NoError(t, err)
			defer func() { assert.NoError(t, r.Close()) }()

			records, err := ReadRecords(r)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, "first", records[0].Name)
			assert.Equal(t, "second", records[1].Name)
			for _, rec := range records {
				assert.True(t, rec.StdDev.Valid)
			}
			assert.Greater(t, records[0].Mean, time.Duration(0))
		})
	}
}

func TestOutputFileContent(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	out, err := New(newParams(t, fs, "/plain.tsv"))
	require.NoError(t, err)

	bench.New().SetIterations(3).WriteOutputTo(out).Bench("noop", func() {})
	require.NoError(t, out.Close())

	data, err := fsext.ReadFile(fs, "/plain.tsv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), bench.HeadMarker))
	assert.Greater(t, len(data), len(bench.HeadMarker))
	assert.True(t, strings.HasPrefix(string(data[len(bench.HeadMarker):]), "noop\t"))
}

func TestOutputForcedGzip(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	out, err := New(newParams(t, fs, "file=/forced,gzip=true"))
	require.NoError(t, err)
	_, err = out.Write([]byte(bench.HeadMarker + "x\t1ms\tn/a\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	data, err := fsext.ReadFile(fs, "/forced")
	require.NoError(t, err)
	assert.Equal(t, gzipMagic, data[:2])

	r, err := Open(fs, "/forced")
	require.NoError(t, err)
	records, err := ReadRecords(r)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "x", Mean: time.Millisecond}}, records)
	require.NoError(t, r.Close())
}

func TestOutputStdout(t *testing.T) {
	t.Parallel()

	params := newParams(t, fsext.NewMemMapFs(), "-")
	stdout := &bytes.Buffer{}
	params.StdOut = stdout
	out, err := New(params)
	require.NoError(t, err)
	assert.Equal(t, "tsv (stdout)", out.Description())

	_, err = out.Write([]byte(bench.HeadMarker))
	require.NoError(t, err)
	assert.Empty(t, stdout.String(), "writes are buffered")
	require.NoError(t, out.Flush())
	assert.Equal(t, bench.HeadMarker, stdout.String())
	require.NoError(t, out.Close())
}

func TestOutputCreateError(t *testing.T) {
	t.Parallel()

	_, err := New(newParams(t, afero.NewReadOnlyFs(fsext.NewMemMapFs()), "/results.tsv"))
	assert.Error(t, err)

	_, err = New(newParams(t, fsext.NewMemMapFs(), "file=/x,nope=1"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate(strings.NewReader(bench.HeadMarker)))
	assert.NoError(t, Validate(strings.NewReader(bench.HeadMarker+"a\t1ms\t2.00ns\n")))
	assert.ErrorIs(t, Validate(strings.NewReader("")), ErrMissingHeadMarker)
	assert.ErrorIs(t, Validate(strings.NewReader("name\tmean\n")), ErrMissingHeadMarker)
	assert.ErrorIs(t, Validate(strings.NewReader("metric_name,timestamp,metric_value\n")), ErrMissingHeadMarker)
}

func TestReadRecords(t *testing.T) {
	t.Parallel()

	records, err := ReadRecords(strings.NewReader(bench.HeadMarker +
		"sleep 1\t1.002s\t44770.10ns\n" +
		"\n" +
		"once\t1.5µs\tn/a\n"))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Name: "sleep 1", Mean: 1002 * time.Millisecond, StdDev: null.FloatFrom(44770.10)},
		{Name: "once", Mean: 1500 * time.Nanosecond},
	}, records)

	for _, bad := range []string{
		"only\ttwo\n",
		"a\tforever\t1.00ns\n",
		"a\t1ms\t1.00\n",
		"a\t1ms\tlots ns\n",
	} {
		_, err := ReadRecords(strings.NewReader(bench.HeadMarker + bad))
		assert.Error(t, err, bad)
	}
}
