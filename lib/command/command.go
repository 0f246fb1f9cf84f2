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

// Package command turns a command line into an operation the bencher can time.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
)

// ErrEmptyCommand is returned when a command line has no words.
var ErrEmptyCommand = errors.New("command line is empty")

// FailedError is returned when a command could not be started, exited
// unsuccessfully or ran past its timeout.
type FailedError struct {
	Args  []string
	Stage string
	Err   error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("the command `%s` failed during %s: %s", strings.Join(e.Args, " "), e.Stage, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// TimedOut reports whether the command was killed by its timeout.
func (e *FailedError) TimedOut() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Command is a single parsed command line.
type Command struct {
	Args          []string
	Timeout       time.Duration
	IgnoreFailure bool

	// Stdout and Stderr receive the output of every run; nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	Logger logrus.FieldLogger
}

// Parse splits line the way a POSIX shell would. When shell is not empty the
// line is passed as is to `shell -c`, the shell itself may carry arguments.
func Parse(line, shell string) (*Command, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrEmptyCommand
	}

	if shell != "" {
		shellArgs, err := shlex.Split(shell)
		if err != nil {
			return nil, fmt.Errorf("invalid shell `%s`: %w", shell, err)
		}
		if len(shellArgs) == 0 {
			return nil, ErrEmptyCommand
		}
		return &Command{Args: append(shellArgs, "-c", line)}, nil
	}

	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid command line `%s`: %w", line, err)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	return &Command{Args: args}, nil
}

// String returns the command line as it is executed.
func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// Run executes the command once and waits for it to finish.
func (c *Command) Run(ctx context.Context) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...) //nolint:gosec
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Start(); err != nil {
		return &FailedError{Args: c.Args, Stage: "start", Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &FailedError{Args: c.Args, Stage: "execution", Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if c.IgnoreFailure && errors.As(err, &exitErr) {
		if c.Logger != nil {
			c.Logger.WithField("exitCode", exitErr.ExitCode()).Debugf("Ignoring the failure of `%s`", c)
		}
		return nil
	}

	return &FailedError{Args: c.Args, Stage: "execution", Err: err}
}

// Operation binds the command to ctx so it can be passed to Bencher.BenchE.
func (c *Command) Operation(ctx context.Context) func() error {
	return func() error {
		return c.Run(ctx)
	}
}
