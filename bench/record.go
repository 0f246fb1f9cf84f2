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

package bench

import (
	"errors"
	"fmt"
	"strings"

	"github.com/liuxd6825/k6bench/metrics"
)

// HeadMarker is the first line of every results file. Consumers check for
// it before parsing the records that follow.
const HeadMarker = "name\tmean\tstddev\n"

var recordNameReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// FormatRecord renders a single results file line for the named series:
// "<name>\t<mean>\t<stddev>ns\n". A series with a single sample has an
// undefined standard deviation, which is written as "n/a". Tabs and line
// breaks in the name are replaced with spaces.
func FormatRecord(name string, s *metrics.Series) (string, error) {
	name = recordNameReplacer.Replace(name)
	mean, err := s.Mean()
	if err != nil {
		return "", err
	}
	stddev, err := s.StandardDeviation()
	if errors.Is(err, metrics.ErrTooFewSamples) {
		return fmt.Sprintf("%s\t%s\tn/a\n", name, mean), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\t%s\t%.2fns\n", name, mean, stddev), nil
}
