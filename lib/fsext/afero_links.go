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

// Package fsext wraps the afero file system used for configuration and
// result files, so tests can swap in an in-memory one.
package fsext

import "github.com/spf13/afero"

// Fs represents a file system
type Fs = afero.Fs

// NewMemMapFs returns a Fs that is in memory
func NewMemMapFs() Fs {
	return afero.NewMemMapFs()
}

// NewOsFs returns a new wrapps os.Fs
func NewOsFs() Fs {
	return afero.NewOsFs()
}

// ReadFile reads the whole file from the filesystem
func ReadFile(fs Fs, filename string) ([]byte, error) {
	return afero.ReadFile(fs, filename)
}
