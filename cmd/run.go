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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdRun handles the `k6bench run` sub-command
type cmdRun struct {
	gs    *globalState
	names []string
}

func (c *cmdRun) run(cmd *cobra.Command, args []string) error {
	if len(c.names) > len(args) {
		return fmt.Errorf("got %d names for %d commands", len(c.names), len(args))
	}

	conf, err := getConsolidatedConfig(c.gs, getConfig(cmd.Flags()))
	if err != nil {
		return err
	}

	benchmarks := make([]benchmark, len(args))
	for i, line := range args {
		benchmarks[i] = benchmark{name: line, line: line}
		if i < len(c.names) {
			benchmarks[i].name = c.names[i]
		}
	}

	return runBenchmarks(c.gs, conf, benchmarks)
}

func (c *cmdRun) flagSet() *pflag.FlagSet {
	flags := configFlagSet()
	flags.StringArrayVarP(&c.names, "name", "n", nil, "name of the benchmark, repeat it once per command")
	return flags
}

func getRunCmd(gs *globalState) *cobra.Command {
	c := &cmdRun{gs: gs}

	runCmd := &cobra.Command{
		Use:   "run [flags] <command>...",
		Short: "Benchmark command lines",
		Long: `Benchmark command lines.

Every command is timed on its own and compared with the one before it.`,
		Example: `
  # Time 'sleep 0.1' 100 times.
  k6bench run "sleep 0.1"

  # Compare two implementations until the results are stable.
  k6bench run -i 0 -n old -n new "./old input.txt" "./new input.txt"

  # Use shell syntax and keep the results in a gzipped file.
  k6bench run --shell /bin/sh -o results.tsv.gz "cat input.txt | wc -l"`[1:],
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	runCmd.Flags().SortFlags = false
	runCmd.Flags().AddFlagSet(c.flagSet())

	return runCmd
}
