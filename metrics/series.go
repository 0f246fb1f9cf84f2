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

// Package metrics contains the sample series collected by a benchmark run
// and the statistics derived from them.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// parallelSumThreshold is the series length from which Sum fans out over
// several goroutines. Below it the goroutine overhead dominates.
const parallelSumThreshold = 1 << 14

var (
	// ErrEmptySeries is returned by statistics that are undefined for a
	// series without samples.
	ErrEmptySeries = errors.New("series has no samples")

	// ErrTooFewSamples is returned by the standard deviation of a series
	// with a single sample, where the degrees of freedom are zero.
	ErrTooFewSamples = errors.New("series needs at least 2 samples")
)

// Series is an ordered collection of elapsed-time samples.
type Series struct {
	samples []time.Duration
}

// NewSeries creates a series holding a copy of the given samples.
func NewSeries(samples ...time.Duration) *Series {
	s := &Series{samples: make([]time.Duration, len(samples))}
	copy(s.samples, samples)
	return s
}

// Push adds a single sample to the series.
func (s *Series) Push(d time.Duration) *Series {
	s.samples = append(s.samples, d)
	return s
}

// Append copies all samples of other onto s. other is left untouched.
func (s *Series) Append(other *Series) *Series {
	s.samples = append(s.samples, other.samples...)
	return s
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Samples returns a copy of the stored samples in insertion order.
func (s *Series) Samples() []time.Duration {
	res := make([]time.Duration, len(s.samples))
	copy(res, s.samples)
	return res
}

// Sum returns the total elapsed time across all samples.
func (s *Series) Sum() time.Duration {
	if len(s.samples) < parallelSumThreshold {
		return sumDurations(s.samples)
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(s.samples) + workers - 1) / workers
	partials := make([]time.Duration, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		lo := i * chunk
		if lo >= len(s.samples) {
			break
		}
		hi := min(lo+chunk, len(s.samples))
		g.Go(func() error {
			partials[i] = sumDurations(s.samples[lo:hi])
			return nil
		})
	}
	_ = g.Wait() // the workers never fail

	return sumDurations(partials)
}

func sumDurations(ds []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return total
}

// Mean returns the average sample duration.
func (s *Series) Mean() (time.Duration, error) {
	if len(s.samples) == 0 {
		return 0, ErrEmptySeries
	}
	return s.Sum() / time.Duration(len(s.samples)), nil
}

// StandardDeviation returns the dispersion figure reported next to the
// mean: the square root of the total elapsed nanoseconds divided by the
// degrees of freedom. It is not the deviation of the samples around their
// mean, and the adaptive stop criterion of the bencher is tuned to it.
func (s *Series) StandardDeviation() (float64, error) {
	switch len(s.samples) {
	case 0:
		return 0, ErrEmptySeries
	case 1:
		return 0, ErrTooFewSamples
	}
	return math.Sqrt(float64(s.Sum().Nanoseconds()) / float64(len(s.samples)-1)), nil
}

// CoefficientOfVariation returns the standard deviation relative to the mean
// in nanoseconds. It is NaN when the mean is zero.
func (s *Series) CoefficientOfVariation() (float64, error) {
	stddev, err := s.StandardDeviation()
	if err != nil {
		return 0, err
	}
	mean, err := s.Mean()
	if err != nil {
		return 0, err
	}
	if mean == 0 {
		return math.NaN(), nil
	}
	return stddev / float64(mean.Nanoseconds()), nil
}

// Compare returns the difference between the mean of s and the mean of
// other.
func (s *Series) Compare(other *Series) (DurationDifference, error) {
	return NewDurationDifference(s, other)
}

// String renders the series as "<mean> (±<stddev>ns ~ <percent>%)".
func (s *Series) String() string {
	mean, err := s.Mean()
	if err != nil {
		return "n/a"
	}
	stddev, err := s.StandardDeviation()
	if err != nil {
		return fmt.Sprintf("%s (±n/a)", mean)
	}
	return fmt.Sprintf("%s (±%.2fns ~ %.2f%%)", mean, stddev, stddev/float64(mean.Nanoseconds())*100)
}
