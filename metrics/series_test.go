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

package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSeriesPushAndAppend(t *testing.T) {
	t.Parallel()

	s := NewSeries()
	assert.Equal(t, 0, s.Len())
	s.Push(time.Second).Push(2 * time.Second)
	assert.Equal(t, 2, s.Len())

	other := NewSeries(3*time.Second, 4*time.Second)
	s.Append(other)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second}, s.Samples())
	assert.Equal(t, 2, other.Len(), "append must not drain the source")

	s.Push(5 * time.Second)
	assert.Equal(t, 2, other.Len())
}

func TestNewSeriesCopies(t *testing.T) {
	t.Parallel()

	samples := []time.Duration{time.Millisecond, 2 * time.Millisecond}
	s := NewSeries(samples...)
	samples[0] = time.Hour
	assert.Equal(t, time.Millisecond, s.Samples()[0])

	got := s.Samples()
	got[1] = time.Hour
	assert.Equal(t, 2*time.Millisecond, s.Samples()[1])
}

func TestSeriesSum(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, time.Duration(0), NewSeries().Sum())
	})
	t.Run("small", func(t *testing.T) {
		t.Parallel()
		s := NewSeries(time.Nanosecond, 2*time.Nanosecond, 3*time.Nanosecond)
		assert.Equal(t, 6*time.Nanosecond, s.Sum())
	})
	t.Run("parallel", func(t *testing.T) {
		t.Parallel()
		s := NewSeries()
		var want time.Duration
		for i := 1; i <= 3*parallelSumThreshold+7; i++ {
			d := time.Duration(i) * time.Nanosecond
			s.Push(d)
			want += d
		}
		assert.Equal(t, want, s.Sum())
		assert.Equal(t, sumDurations(s.samples), s.Sum())
	})
}

func TestSeriesMean(t *testing.T) {
	t.Parallel()

	mean, err := NewSeries(10*time.Millisecond, 20*time.Millisecond).Mean()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Millisecond, mean)

	_, err = NewSeries().Mean()
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestSeriesStandardDeviation(t *testing.T) {
	t.Parallel()

	t.Run("formula", func(t *testing.T) {
		t.Parallel()
		// sum is 400ns over 2 degrees of freedom
		s := NewSeries(100*time.Nanosecond, 100*time.Nanosecond, 200*time.Nanosecond)
		stddev, err := s.StandardDeviation()
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(200), stddev, 1e-9)
	})
	t.Run("identical samples are not zero", func(t *testing.T) {
		t.Parallel()
		s := NewSeries(time.Microsecond, time.Microsecond)
		stddev, err := s.StandardDeviation()
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(2000), stddev, 1e-9)
	})
	t.Run("single sample", func(t *testing.T) {
		t.Parallel()
		_, err := NewSeries(time.Second).StandardDeviation()
		assert.ErrorIs(t, err, ErrTooFewSamples)
	})
	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := NewSeries().StandardDeviation()
		assert.ErrorIs(t, err, ErrEmptySeries)
	})
}

func TestSeriesCoefficientOfVariation(t *testing.T) {
	t.Parallel()

	s := NewSeries(time.Millisecond, time.Millisecond, time.Millisecond)
	cv, err := s.CoefficientOfVariation()
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1.5e6)/1e6, cv, 1e-12)
	assert.Less(t, cv, 0.01)

	cv, err = NewSeries(0, 0).CoefficientOfVariation()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(cv))

	_, err = NewSeries(time.Second).CoefficientOfVariation()
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestSeriesString(t *testing.T) {
	t.Parallel()

	s := NewSeries(100*time.Nanosecond, 100*time.Nanosecond, 200*time.Nanosecond)
	// mean 133ns, stddev sqrt(200) = 14.14ns
	assert.Equal(t, "133ns (±14.14ns ~ 10.63%)", s.String())

	assert.Equal(t, "1ms (±n/a)", NewSeries(time.Millisecond).String())
	assert.Equal(t, "n/a", NewSeries().String())
}

func TestDurationDifference(t *testing.T) {
	t.Parallel()

	ten := NewSeries(10*time.Millisecond, 10*time.Millisecond)
	twelve := NewSeries(11*time.Millisecond, 13*time.Millisecond)

	diff, err := NewDurationDifference(ten, twelve)
	require.NoError(t, err)
	assert.Equal(t, DurationDifference{Magnitude: 2 * time.Millisecond, Positive: false}, diff)
	assert.Equal(t, "-2ms", diff.String())

	diff, err = twelve.Compare(ten)
	require.NoError(t, err)
	assert.Equal(t, DurationDifference{Magnitude: 2 * time.Millisecond, Positive: true}, diff)
	assert.Equal(t, "+2ms", diff.String())

	diff, err = ten.Compare(NewSeries(10 * time.Millisecond))
	require.NoError(t, err)
	assert.False(t, diff.Positive, "ties take the negative branch")
	assert.Equal(t, time.Duration(0), diff.Magnitude)

	_, err = ten.Compare(NewSeries())
	assert.ErrorIs(t, err, ErrEmptySeries)
}
