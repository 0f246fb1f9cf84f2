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

import "time"

// DurationDifference is the signed difference between the means of two
// series. Positive is set when the left mean is strictly larger.
type DurationDifference struct {
	Magnitude time.Duration
	Positive  bool
}

// NewDurationDifference computes mean(left) - mean(right).
func NewDurationDifference(left, right *Series) (DurationDifference, error) {
	leftMean, err := left.Mean()
	if err != nil {
		return DurationDifference{}, err
	}
	rightMean, err := right.Mean()
	if err != nil {
		return DurationDifference{}, err
	}

	if leftMean > rightMean {
		return DurationDifference{Magnitude: leftMean - rightMean, Positive: true}, nil
	}
	return DurationDifference{Magnitude: rightMean - leftMean}, nil
}

func (d DurationDifference) String() string {
	if d.Positive {
		return "+" + d.Magnitude.String()
	}
	return "-" + d.Magnitude.String()
}
