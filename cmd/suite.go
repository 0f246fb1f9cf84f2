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
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/k6bench/errext"
	"github.com/liuxd6825/k6bench/errext/exitcodes"
)

// suiteFile is the YAML description of a list of benchmarks. Its settings
// take priority over the config file and the environment, but not over the
// CLI flags.
type suiteFile struct {
	Config     `yaml:",inline"`
	Benchmarks []suiteBenchmark `yaml:"benchmarks"`
}

type suiteBenchmark struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

func readSuite(gs *globalState, filename string) (suiteFile, error) {
	if !filepath.IsAbs(filename) {
		pwd, err := gs.getwd()
		if err != nil {
			return suiteFile{}, err
		}
		filename = filepath.Join(pwd, filename)
	}

	data, err := afero.ReadFile(gs.fs, filename)
	if err != nil {
		return suiteFile{}, fmt.Errorf("couldn't read the suite file: %w", err)
	}

	var suite suiteFile
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return suiteFile{}, fmt.Errorf("couldn't parse the suite file %s: %w", filename, err)
	}
	if len(suite.Benchmarks) == 0 {
		return suiteFile{}, errors.New("the suite file doesn't contain any benchmarks")
	}
	for i, bm := range suite.Benchmarks {
		if bm.Command == "" {
			return suiteFile{}, fmt.Errorf("benchmark #%d in the suite file has no command", i+1)
		}
	}

	return suite, nil
}

func (s suiteFile) benchmarks() []benchmark {
	res := make([]benchmark, len(s.Benchmarks))
	for i, bm := range s.Benchmarks {
		res[i] = benchmark{name: bm.Name, line: bm.Command}
		if res[i].name == "" {
			res[i].name = bm.Command
		}
	}
	return res
}

func getSuiteCmd(gs *globalState) *cobra.Command {
	suiteCmd := &cobra.Command{
		Use:   "suite [flags] <file.yaml>",
		Short: "Run the benchmarks listed in a YAML file",
		Long: `Run the benchmarks listed in a YAML file.

The file can hold the same settings as the JSON config file, plus the list
of benchmarks:

  iterations: 0
  maxIterations: 500
  timeout: 10s
  benchmarks:
    - name: old
      command: ./old input.txt
    - name: new
      command: ./new input.txt`,
		Args: exactArgsWithMsg(1, "arg should be the path to a suite file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := readSuite(gs, args[0])
			if err != nil {
				return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
			}

			conf, err := getConsolidatedConfig(gs, getConfig(cmd.Flags()), suite.Config)
			if err != nil {
				return err
			}

			return runBenchmarks(gs, conf, suite.benchmarks())
		},
	}

	suiteCmd.Flags().SortFlags = false
	suiteCmd.Flags().AddFlagSet(configFlagSet())

	return suiteCmd
}
