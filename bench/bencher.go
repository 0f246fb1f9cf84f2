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

// Package bench implements a lightweight, self-calibrating micro-benchmark
// harness. A Bencher times repeated calls of an operation, either a fixed
// number of times or until the measurements converge, and keeps the
// resulting series so that consecutive benchmarks can be compared.
package bench

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6bench/metrics"
)

const (
	// DefaultIterations is the number of runs of a fixed mode benchmark.
	DefaultIterations = 100
	// DefaultMaxIterations caps the number of runs in adaptive mode.
	DefaultMaxIterations = 10000

	calibrationRounds = 1000
	// adaptive mode stops once the coefficient of variation drops below this
	convergenceThreshold = 0.01
)

// ErrNotEnoughHistory is returned when fewer than two benchmarks were
// recorded and there is nothing to compare.
var ErrNotEnoughHistory = errors.New("at least 2 benchmarks are needed for a comparison")

// Bencher runs benchmarks and keeps the series of every completed one.
//
// A Bencher is not safe for concurrent use. The benchmarked operation is
// always called on the goroutine that called Bench.
type Bencher struct {
	history       []*metrics.Series
	iterations    int
	maxIterations int
	calibration   time.Duration

	clock   Clock
	console Console
	output  Output
	logger  logrus.FieldLogger
}

// Option configures a Bencher at construction time.
type Option func(*Bencher)

// WithClock replaces the monotonic system clock.
func WithClock(c Clock) Option {
	return func(b *Bencher) { b.clock = c }
}

// WithConsole sets where the human-readable report is written to.
// By default it is discarded.
func WithConsole(c Console) Option {
	return func(b *Bencher) { b.console = c }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Bencher) { b.logger = l }
}

// New returns a Bencher in fixed mode with DefaultIterations. It measures
// the calibration offset before returning.
func New(opts ...Option) *Bencher {
	b := &Bencher{
		iterations:    DefaultIterations,
		maxIterations: DefaultMaxIterations,
		clock:         monotonicClock{},
		console:       discardConsole{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		b.logger = l
	}

	b.calibration = b.calibrate()
	b.logger.WithField("calibration", b.calibration).Debug("Bencher calibrated")
	return b
}

// calibrate returns the average time it takes to take two timestamps with
// nothing in between.
func (b *Bencher) calibrate() time.Duration {
	durations := metrics.NewSeries()
	for i := 0; i < calibrationRounds; i++ {
		start := b.clock.Now()
		durations.Push(b.clock.Since(start))
	}
	mean, _ := durations.Mean() // never empty
	return mean
}

// SetIterations sets how many times a benchmark runs. 0 switches to adaptive
// mode, where the operation runs until the coefficient of variation drops
// below 1% or MaxIterations is reached. Negative values are treated as 0.
func (b *Bencher) SetIterations(n int) *Bencher {
	b.iterations = max(n, 0)
	return b
}

// SetMaxIterations caps the number of runs in adaptive mode. Negative values
// are treated as 0.
func (b *Bencher) SetMaxIterations(n int) *Bencher {
	b.maxIterations = max(n, 0)
	return b
}

// Iterations returns the configured iteration count, 0 meaning adaptive.
func (b *Bencher) Iterations() int { return b.iterations }

// MaxIterations returns the adaptive mode cap.
func (b *Bencher) MaxIterations() int { return b.maxIterations }

// Calibration returns the offset subtracted from every measurement.
func (b *Bencher) Calibration() time.Duration { return b.calibration }

// History returns the series of all completed benchmarks in execution order.
func (b *Bencher) History() []*metrics.Series {
	res := make([]*metrics.Series, len(b.history))
	copy(res, b.history)
	return res
}

// Bench benchmarks fn and reports the result under the given name.
// A panic in fn is not recovered.
func (b *Bencher) Bench(name string, fn func()) *Bencher {
	_, _ = b.BenchE(name, func() error {
		fn()
		return nil
	})
	return b
}

// BenchE is like Bench for operations that can fail. The first error
// returned by fn stops the benchmark and is returned as is. Only the title
// of an interrupted benchmark is printed; it gets no result line, no record
// and no history entry.
func (b *Bencher) BenchE(name string, fn func() error) (*Bencher, error) {
	logger := b.logger.WithField("benchmark", name)
	b.console.WriteLine(PlainLine, "")
	b.console.WriteLine(TitleLine, name)

	series, err := b.run(fn)
	if err != nil {
		logger.WithError(err).Debugf("Benchmark interrupted after %d iterations", series.Len())
		return b, err
	}

	b.console.WriteLine(PlainLine, "Result: "+series.String())
	b.writeRecord(logger, name, series)
	b.history = append(b.history, series)
	return b, nil
}

func (b *Bencher) run(fn func() error) (*metrics.Series, error) {
	series := metrics.NewSeries()
	if b.iterations > 0 {
		for i := 0; i < b.iterations; i++ {
			d, err := b.measure(fn)
			if err != nil {
				return series, err
			}
			series.Push(d)
		}
		return series, nil
	}

	for series.Len() < b.maxIterations {
		d, err := b.measure(fn)
		if err != nil {
			return series, err
		}
		series.Push(d)
		if b.converged(series) {
			break
		}
	}
	b.console.WriteLine(NoteLine, fmt.Sprintf("After %d iterations", series.Len()))
	return series, nil
}

// converged reports whether an adaptive run can stop. At least 2 samples are
// required for the standard deviation to be defined.
func (b *Bencher) converged(series *metrics.Series) bool {
	if series.Len() < 2 {
		return false
	}
	cv, err := series.CoefficientOfVariation()
	return err == nil && cv < convergenceThreshold
}

// measure times a single call of fn, minus the calibration offset. When the
// measurement does not exceed the offset it is kept as is.
func (b *Bencher) measure(fn func() error) (time.Duration, error) {
	start := b.clock.Now()
	err := fn()
	elapsed := b.clock.Since(start)
	if elapsed > b.calibration {
		elapsed -= b.calibration
	}
	return elapsed, err
}

func (b *Bencher) writeRecord(logger logrus.FieldLogger, name string, series *metrics.Series) {
	if b.output == nil {
		return
	}
	record, err := FormatRecord(name, series)
	if err != nil {
		logger.WithError(err).Warn("Skipping the results record")
		return
	}
	if _, err := io.WriteString(b.output, record); err != nil {
		logger.WithError(err).Warn("Could not write the results record")
	}
}

// LastDifference returns mean(last) - mean(second to last) of the recorded
// benchmarks.
func (b *Bencher) LastDifference() (metrics.DurationDifference, error) {
	n := len(b.history)
	if n < 2 {
		return metrics.DurationDifference{}, ErrNotEnoughHistory
	}
	return metrics.NewDurationDifference(b.history[n-1], b.history[n-2])
}

// Compare reports the difference between the last two benchmarks. It does
// nothing if fewer than two benchmarks were recorded.
func (b *Bencher) Compare() *Bencher {
	diff, err := b.LastDifference()
	switch {
	case errors.Is(err, ErrNotEnoughHistory):
		return b
	case err != nil:
		b.logger.WithError(err).Warn("Could not compare the last two benchmarks")
		return b
	}
	b.console.WriteLine(PlainLine, "Difference: "+diff.String())
	return b
}

// PrintSettings reports the calibration offset and the iteration settings.
func (b *Bencher) PrintSettings() *Bencher {
	iterations := "auto"
	if b.iterations > 0 {
		iterations = strconv.Itoa(b.iterations)
	}

	b.console.WriteLine(PlainLine, "")
	b.console.WriteLine(HeadingLine, "Benchmarking Settings")
	b.console.WriteLine(PlainLine, "Benchmarking accuracy delay:\t "+b.calibration.String())
	b.console.WriteLine(PlainLine, "Number of iterations:\t "+iterations)
	if b.iterations == 0 {
		b.console.WriteLine(PlainLine, "Maximum number of iterations: "+strconv.Itoa(b.maxIterations))
	}
	return b
}

// WriteOutputTo makes every following benchmark also write a record to out.
// The HeadMarker is written to out right away.
func (b *Bencher) WriteOutputTo(out Output) *Bencher {
	b.output = out
	if _, err := io.WriteString(out, HeadMarker); err != nil {
		b.logger.WithError(err).Warn("Could not write the results head marker")
	}
	return b
}

// Flush flushes the output set with WriteOutputTo, if any.
func (b *Bencher) Flush() error {
	if b.output == nil {
		return nil
	}
	return b.output.Flush()
}
