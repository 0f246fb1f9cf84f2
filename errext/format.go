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

package errext

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6bench/errext/exitcodes"
)

// Format formats the given error as a message and the logrus fields that
// go with it: the hint, if there is one.
func Format(err error) (string, logrus.Fields) {
	if err == nil {
		return "", nil
	}

	fields := logrus.Fields{}
	var herr HasHint
	if errors.As(err, &herr) {
		fields["hint"] = herr.Hint()
	}

	return err.Error(), fields
}

// ExitCodeOf returns the exit code attached to err, or fallback if there is
// none.
func ExitCodeOf(err error, fallback exitcodes.ExitCode) exitcodes.ExitCode {
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return ecerr.ExitCode()
	}
	return fallback
}
