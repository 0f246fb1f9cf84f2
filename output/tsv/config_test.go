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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	config := NewConfig()
	assert.Equal(t, "results.tsv", config.FileName.String)
	assert.False(t, config.FileName.Valid)
	assert.False(t, config.Compressed())
}

func TestApply(t *testing.T) {
	t.Parallel()

	base := NewConfig()
	got := base.Apply(Config{FileName: null.StringFrom("out.tsv")})
	assert.Equal(t, null.StringFrom("out.tsv"), got.FileName)
	assert.False(t, got.Gzip.Bool)

	got = got.Apply(Config{Gzip: null.BoolFrom(true)})
	assert.Equal(t, "out.tsv", got.FileName.String)
	assert.True(t, got.Compressed())
}

func TestParseArg(t *testing.T) {
	t.Parallel()

	cases := map[string]Config{
		"results.tsv":    {FileName: null.StringFrom("results.tsv")},
		"results.tsv.gz": {FileName: null.StringFrom("results.tsv.gz")},
		"file=a.tsv":     {FileName: null.StringFrom("a.tsv")},
		"fileName=b.tsv,gzip=true": {
			FileName: null.StringFrom("b.tsv"),
			Gzip:     null.BoolFrom(true),
		},
	}
	for arg, expected := range cases {
		arg, expected := arg, expected
		t.Run(arg, func(t *testing.T) {
			t.Parallel()
			config, err := ParseArg(arg)
			require.NoError(t, err)
			assert.Equal(t, expected, config)
		})
	}

	for _, arg := range []string{"file=a.tsv,gzip=maybe", "file=a.tsv,level=3", "file=a.tsv,gzip"} {
		arg := arg
		t.Run(arg, func(t *testing.T) {
			t.Parallel()
			_, err := ParseArg(arg)
			assert.Error(t, err)
		})
	}
}

func TestGetConsolidatedConfig(t *testing.T) {
	t.Parallel()

	config, err := GetConsolidatedConfig(nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), config)

	config, err = GetConsolidatedConfig(
		[]byte(`{"fileName":"json.tsv","gzip":true}`),
		map[string]string{"K6BENCH_OUT_FILE": "env.tsv"},
		"",
	)
	require.NoError(t, err)
	assert.Equal(t, "env.tsv", config.FileName.String)
	assert.True(t, config.Gzip.Bool)

	config, err = GetConsolidatedConfig(
		nil,
		map[string]string{"K6BENCH_OUT_FILE": "env.tsv", "K6BENCH_OUT_GZIP": "false"},
		"arg.tsv.gz",
	)
	require.NoError(t, err)
	assert.Equal(t, "arg.tsv.gz", config.FileName.String)
	assert.True(t, config.Compressed())

	_, err = GetConsolidatedConfig([]byte(`{"fileName":`), nil, "")
	assert.Error(t, err)
}
