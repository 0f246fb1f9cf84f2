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

package cmd

import (
	"errors"
	"fmt"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/errext"
	"github.com/liuxd6825/k6bench/errext/exitcodes"
	"github.com/liuxd6825/k6bench/lib/command"
	"github.com/liuxd6825/k6bench/output/tsv"
)

// benchmark is a named command line to time.
type benchmark struct {
	name string
	line string
}

func newBencher(gs *globalState, conf Config) *bench.Bencher {
	opts := []bench.Option{
		bench.WithConsole(gs.console),
		bench.WithLogger(gs.logger),
	}
	if gs.clock != nil {
		opts = append(opts, bench.WithClock(gs.clock))
	}

	return bench.New(opts...).
		SetIterations(int(conf.Iterations.Int64)).
		SetMaxIterations(int(conf.MaxIterations.Int64))
}

// createOutput returns nil when no results file was configured.
func createOutput(gs *globalState, conf Config) (*tsv.Output, error) {
	if conf.Out.String == "" {
		return nil, nil //nolint:nilnil
	}

	out, err := tsv.New(tsv.Params{
		ConfigArgument: conf.Out.String,
		JSONConfig:     conf.Collectors["tsv"],
		Logger:         gs.logger,
		Environment:    gs.envVars,
		StdOut:         gs.console.StdoutWriter(),
		FS:             gs.fs,
	})
	if err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.OutputFailed)
	}
	return out, nil
}

func parseBenchmarks(conf Config, benchmarks []benchmark) ([]*command.Command, error) {
	cmds := make([]*command.Command, 0, len(benchmarks))
	for _, bm := range benchmarks {
		cmd, err := command.Parse(bm.line, conf.Shell.String)
		if err != nil {
			return nil, errext.WithExitCodeIfNone(
				fmt.Errorf("invalid command for benchmark %q: %w", bm.name, err), exitcodes.InvalidConfig)
		}
		cmd.Timeout = conf.Timeout.TimeDuration()
		cmd.IgnoreFailure = conf.IgnoreFailure.Bool
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// runBenchmarks times every benchmark in order and compares each one with
// the one before it.
func runBenchmarks(gs *globalState, conf Config, benchmarks []benchmark) (err error) {
	cmds, err := parseBenchmarks(conf, benchmarks)
	if err != nil {
		return err
	}

	b := newBencher(gs, conf)
	if !gs.flags.quiet {
		b.PrintSettings()
	}

	out, err := createOutput(gs, conf)
	if err != nil {
		return err
	}
	if out != nil {
		gs.logger.Debugf("Writing the results to %s", out.Description())
		b.WriteOutputTo(out)
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = errext.WithExitCodeIfNone(
					fmt.Errorf("could not close the results file: %w", cerr), exitcodes.OutputFailed)
			}
		}()
	}

	for i, bm := range benchmarks {
		cmds[i].Logger = gs.logger.WithField("benchmark", bm.name)
		if _, err := b.BenchE(bm.name, cmds[i].Operation(gs.ctx)); err != nil {
			return errext.WithExitCodeIfNone(
				errext.WithHint(fmt.Errorf("benchmark %q failed: %w", bm.name, err), failureHint(err)),
				exitcodes.GenericEngine,
			)
		}
		b.Compare()
	}

	if err := b.Flush(); err != nil {
		return errext.WithExitCodeIfNone(fmt.Errorf("could not write the results: %w", err), exitcodes.OutputFailed)
	}
	return nil
}

func failureHint(err error) string {
	var failed *command.FailedError
	switch {
	case errors.As(err, &failed) && failed.TimedOut():
		return "a single run took longer than --timeout, consider increasing it"
	case errors.As(err, &failed) && failed.Stage == "start":
		return "the executable could not be started, use --shell for shell builtins and functions"
	default:
		return "use --ignore-failure to benchmark commands that exit unsuccessfully"
	}
}
