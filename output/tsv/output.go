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

// Package tsv writes benchmark records to a tab-separated results file and
// reads such files back.
package tsv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/fsext"
)

var _ bench.Output = &Output{}

// Params contains all possible constructor parameters of an Output.
type Params struct {
	ConfigArgument string // --out $ConfigArgument, K6BENCH_OUT_FILE
	JSONConfig     json.RawMessage

	Logger      logrus.FieldLogger
	Environment map[string]string
	StdOut      io.Writer
	FS          fsext.Fs
}

// Output is a buffered results file. It is meant to be handed to
// bench.Bencher.WriteOutputTo and closed once the benchmarks are done.
type Output struct {
	logger  logrus.FieldLogger
	fname   string
	w       *bufio.Writer
	flushFn func() error
	closeFn func() error
}

// New creates the results file described by params. A file name of "-"
// writes to params.StdOut instead.
func New(params Params) (*Output, error) {
	config, err := GetConsolidatedConfig(params.JSONConfig, params.Environment, params.ConfigArgument)
	if err != nil {
		return nil, err
	}
	fname := config.FileName.String

	logger := params.Logger.WithFields(logrus.Fields{
		"output":   "tsv",
		"filename": fname,
	})

	if fname == "" || fname == "-" {
		return &Output{
			logger:  logger,
			fname:   "-",
			w:       bufio.NewWriter(params.StdOut),
			flushFn: func() error { return nil },
			closeFn: func() error { return nil },
		}, nil
	}

	file, err := params.FS.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("could not create the results file: %w", err)
	}

	o := &Output{
		logger: logger,
		fname:  fname,
	}
	if config.Compressed() {
		gz := gzip.NewWriter(file)
		o.w = bufio.NewWriter(gz)
		o.flushFn = gz.Flush
		o.closeFn = func() error {
			if err := gz.Close(); err != nil {
				_ = file.Close()
				return err
			}
			return file.Close()
		}
	} else {
		o.w = bufio.NewWriter(file)
		o.flushFn = func() error { return nil }
		o.closeFn = file.Close
	}
	logger.Debug("Results file created")

	return o, nil
}

// Description returns a human-readable description of the output.
func (o *Output) Description() string {
	if o.fname == "-" {
		return "tsv (stdout)"
	}
	return fmt.Sprintf("tsv (%s)", o.fname)
}

// Write buffers p.
func (o *Output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Flush writes all buffered data through to the file.
func (o *Output) Flush() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	return o.flushFn()
}

// Close flushes the remaining data and closes the file.
func (o *Output) Close() error {
	o.logger.Debug("Closing...")
	defer o.logger.Debug("Closed!")
	if err := o.Flush(); err != nil {
		_ = o.closeFn()
		return err
	}
	return o.closeFn()
}
