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

import "time"

// Clock is the time source used to measure elapsed time. Implementations
// must be monotonic.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type monotonicClock struct{}

// Now relies on the monotonic clock reading that time.Now attaches.
func (monotonicClock) Now() time.Time { return time.Now() }

func (monotonicClock) Since(t time.Time) time.Duration { return time.Since(t) }
