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

// Package console renders the benchmark report on a terminal.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/consts"
)

var _ bench.Console = &Console{}

// Console enables synced writing to stdout and stderr ...
type Console struct {
	IsTTY          bool
	outMx          *sync.Mutex
	Stdout, Stderr OSFileW
	stdout, stderr *consoleWriter
	theme          *theme
	logger         *logrus.Logger
}

// New returns the pointer to a new Console value. Colors are only used when
// colorize is set and both stdout and stderr are terminals.
func New(stdout, stderr OSFileW, colorize bool, termType string) *Console {
	outMx := &sync.Mutex{}
	outCW := newConsoleWriter(stdout, outMx, termType)
	errCW := newConsoleWriter(stderr, outMx, termType)
	isTTY := outCW.isTTY && errCW.isTTY

	// Default logger without any formatting
	logger := &logrus.Logger{
		Out:       errCW,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	var th *theme
	// Only enable themes and a fancy logger if we're in a TTY
	if isTTY && colorize {
		th = &theme{
			foreground: newColor(color.FgCyan),
			title:      newColor(color.FgHiBlue, color.Bold),
			heading:    newColor(color.FgGreen, color.Underline),
			note:       newColor(color.Faint),
		}
		outCW.out = colorableWriter(stdout)
		errCW.out = colorableWriter(stderr)

		logger = &logrus.Logger{
			Out: errCW,
			Formatter: &logrus.TextFormatter{
				ForceColors:   true,
				DisableColors: false,
			},
			Hooks: make(logrus.LevelHooks),
			Level: logrus.InfoLevel,
		}
	} else if !colorize {
		// strip any escape sequence a caller might still have added
		outCW.out = colorable.NewNonColorable(stdout)
		errCW.out = colorable.NewNonColorable(stderr)
	}

	return &Console{
		IsTTY:  isTTY,
		outMx:  outMx,
		Stdout: stdout,
		Stderr: stderr,
		stdout: outCW,
		stderr: errCW,
		theme:  th,
		logger: logger,
	}
}

// ApplyTheme adds ANSI color escape sequences to s if themes are enabled;
// otherwise it returns s unchanged.
func (c *Console) ApplyTheme(s string) string {
	if c.colorized() {
		return c.theme.foreground.Sprint(s)
	}

	return s
}

// Banner returns the ASCII art banner, optionally with ANSI color escape
// sequences if themes are enabled.
func (c *Console) Banner() string {
	return c.ApplyTheme(consts.Banner())
}

// GetLogger returns the preconfigured plain-text logger. It will be configured
// to output colors if themes are enabled.
func (c *Console) GetLogger() *logrus.Logger {
	return c.logger
}

// SetLogger overrides the preconfigured logger.
func (c *Console) SetLogger(l *logrus.Logger) {
	c.logger = l
}

// StdoutWriter returns the synced stdout writer.
func (c *Console) StdoutWriter() io.Writer {
	return c.stdout
}

// StderrWriter returns the synced stderr writer.
func (c *Console) StderrWriter() io.Writer {
	return c.stderr
}

// Print writes s to stdout.
func (c *Console) Print(s string) {
	if _, err := fmt.Fprint(c.stdout, s); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// Printf writes s to stdout, formatted with optional arguments.
func (c *Console) Printf(s string, a ...interface{}) {
	if _, err := fmt.Fprintf(c.stdout, s, a...); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// WriteLine writes text and a line break to stdout, styled by kind.
func (c *Console) WriteLine(kind bench.LineKind, text string) {
	if c.colorized() && text != "" {
		switch kind {
		case bench.TitleLine:
			text = c.theme.title.Sprint(text)
		case bench.HeadingLine:
			text = c.theme.heading.Sprint(text)
		case bench.NoteLine:
			text = c.theme.note.Sprint(text)
		case bench.PlainLine:
		}
	}
	c.Print(text + "\n")
}

func (c *Console) colorized() bool {
	return c.theme != nil
}

// OSFile is a subset of the functionality implemented by os.File.
type OSFile interface {
	Fd() uintptr
}

// OSFileW is the writer variant of OSFile, typically representing os.Stdout and
// os.Stderr.
type OSFileW interface {
	io.Writer
	OSFile
}

// theme is a collection of colors supported by the console output.
type theme struct {
	foreground *color.Color
	title      *color.Color
	heading    *color.Color
	note       *color.Color
}

// A writer that syncs writes with a mutex and, if the output is a TTY, clears
// before newlines.
type consoleWriter struct {
	out   io.Writer
	isTTY bool
	mutex *sync.Mutex
}

func newConsoleWriter(out OSFileW, mx *sync.Mutex, termType string) *consoleWriter {
	isTTY := termType != "dumb" && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	return &consoleWriter{out, isTTY, mx}
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		// Add a TTY code to erase till the end of line with each new line
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.out.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// colorableWriter lets colorable translate escape sequences on Windows
// consoles. Anything that is not an *os.File is used as is.
func colorableWriter(f OSFileW) io.Writer {
	if file, ok := f.(*os.File); ok {
		return colorable.NewColorable(file)
	}
	return f
}

// newColor returns the requested color with the given attributes.
func newColor(attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	c.EnableColor()
	return c
}
