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

import "io"

// LineKind tells a Console how a line is meant to be presented.
type LineKind uint8

// Line kinds emitted by the Bencher.
const (
	PlainLine LineKind = iota
	TitleLine
	HeadingLine
	NoteLine
)

// Console receives the human-readable report of a Bencher, one line at a
// time. Any decoration is left to the implementation.
type Console interface {
	WriteLine(kind LineKind, text string)
}

// Output is a buffered sink for the tab-separated benchmark records.
// *bufio.Writer satisfies it.
type Output interface {
	io.Writer
	Flush() error
}

type discardConsole struct{}

func (discardConsole) WriteLine(LineKind, string) {}
