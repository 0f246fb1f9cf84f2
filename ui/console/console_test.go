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

package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/consts"
)

type testOSFileW struct {
	bytes.Buffer
}

// an invalid descriptor is never a terminal
func (f *testOSFileW) Fd() uintptr {
	return ^uintptr(0)
}

func TestConsoleWriteLine(t *testing.T) {
	t.Parallel()

	stdout, stderr := &testOSFileW{}, &testOSFileW{}
	c := New(stdout, stderr, true, "")
	assert.False(t, c.IsTTY)

	c.WriteLine(bench.PlainLine, "")
	c.WriteLine(bench.TitleLine, "sleep 1")
	c.WriteLine(bench.NoteLine, "After 3 iterations")
	c.WriteLine(bench.PlainLine, "Result: 1s (±1.00ns ~ 0.00%)")

	assert.Equal(t, "\nsleep 1\nAfter 3 iterations\nResult: 1s (±1.00ns ~ 0.00%)\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestConsoleNoColorStripsEscapes(t *testing.T) {
	t.Parallel()

	stdout := &testOSFileW{}
	c := New(stdout, &testOSFileW{}, false, "")

	red := color.New(color.FgRed)
	red.EnableColor()
	c.Print(red.Sprint("failed") + "\n")
	assert.Equal(t, "failed\n", stdout.String())
}

func TestConsoleThemedLines(t *testing.T) {
	t.Parallel()

	stdout := &testOSFileW{}
	c := New(stdout, &testOSFileW{}, true, "")
	// pretend the terminal checks succeeded
	c.theme = &theme{
		foreground: newColor(color.FgCyan),
		title:      newColor(color.FgHiBlue, color.Bold),
		heading:    newColor(color.FgGreen, color.Underline),
		note:       newColor(color.Faint),
	}

	c.WriteLine(bench.TitleLine, "name")
	c.WriteLine(bench.PlainLine, "")
	assert.Equal(t, c.theme.title.Sprint("name")+"\n\n", stdout.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "\x1b[94;1mname"))
	assert.Equal(t, c.theme.foreground.Sprint("k6"), c.ApplyTheme("k6"))
	assert.True(t, strings.HasPrefix(c.ApplyTheme("k6"), "\x1b[36mk6"))
}

func TestConsoleLogger(t *testing.T) {
	t.Parallel()

	stderr := &testOSFileW{}
	c := New(&testOSFileW{}, stderr, false, "")
	c.GetLogger().Info("calibrating")
	assert.Contains(t, stderr.String(), "calibrating")
	assert.Equal(t, "plain", c.ApplyTheme("plain"))
	assert.Equal(t, consts.Banner(), c.Banner())
	assert.Contains(t, c.Banner(), "bench")
}

func TestConsoleWriterSync(t *testing.T) {
	t.Parallel()

	stdout := &testOSFileW{}
	c := New(stdout, &testOSFileW{}, false, "")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Printf("%s\n", "line")
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, stdout.Len())
}
