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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/errext"
	"github.com/liuxd6825/k6bench/errext/exitcodes"
	"github.com/liuxd6825/k6bench/lib/types"
)

// configFlagSet returns a FlagSet with the default run configuration flags.
func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.Int64P("iterations", "i", bench.DefaultIterations,
		"number of timed runs per benchmark, 0 stops automatically once the results are stable")
	flags.Int64("max-iterations", bench.DefaultMaxIterations, "maximum number of runs when the iteration count is automatic")
	flags.StringP("out", "o", "", "write the results to a `file`, - for stdout or file=path,gzip=true")
	flags.Var(&types.NullDuration{}, "timeout",
		"kill a single run of a command after this `duration`, plain numbers are milliseconds, 0 disables it")
	flags.StringP("shell", "s", "", "execute the commands through `shell` -c")
	flags.BoolP("ignore-failure", "I", false, "don't stop when a command exits unsuccessfully")
	return flags
}

// Config is the benchmark configuration shared by the run, suite and
// settings commands.
type Config struct {
	Iterations    null.Int           `json:"iterations" yaml:"iterations" envconfig:"K6BENCH_ITERATIONS"`
	MaxIterations null.Int           `json:"maxIterations" yaml:"maxIterations" envconfig:"K6BENCH_MAX_ITERATIONS"`
	Out           null.String        `json:"out" yaml:"out" envconfig:"K6BENCH_OUT"`
	Timeout       types.NullDuration `json:"timeout" yaml:"timeout" envconfig:"K6BENCH_TIMEOUT"`
	Shell         null.String        `json:"shell" yaml:"shell" envconfig:"K6BENCH_SHELL"`
	IgnoreFailure null.Bool          `json:"ignoreFailure" yaml:"ignoreFailure" envconfig:"K6BENCH_IGNORE_FAILURE"`

	// Collectors holds the raw JSON configuration of the outputs, by name.
	Collectors map[string]json.RawMessage `json:"collectors" yaml:"-" ignored:"true"`
}

// Apply the provided config on top of the current one, returning a new one. The provided config has priority.
func (c Config) Apply(cfg Config) Config {
	if cfg.Iterations.Valid {
		c.Iterations = cfg.Iterations
	}
	if cfg.MaxIterations.Valid {
		c.MaxIterations = cfg.MaxIterations
	}
	if cfg.Out.Valid {
		c.Out = cfg.Out
	}
	if cfg.Timeout.Valid {
		c.Timeout = cfg.Timeout
	}
	if cfg.Shell.Valid {
		c.Shell = cfg.Shell
	}
	if cfg.IgnoreFailure.Valid {
		c.IgnoreFailure = cfg.IgnoreFailure
	}
	if len(cfg.Collectors) > 0 {
		c.Collectors = cfg.Collectors
	}
	return c
}

func defaultConfig() Config {
	return Config{
		Iterations:    null.NewInt(bench.DefaultIterations, false),
		MaxIterations: null.NewInt(bench.DefaultMaxIterations, false),
		IgnoreFailure: null.NewBool(false, false),
	}
}

// Gets configuration from CLI flags.
func getConfig(flags *pflag.FlagSet) Config {
	return Config{
		Iterations:    getNullInt64(flags, "iterations"),
		MaxIterations: getNullInt64(flags, "max-iterations"),
		Out:           getNullString(flags, "out"),
		Timeout:       getNullDuration(flags, "timeout"),
		Shell:         getNullString(flags, "shell"),
		IgnoreFailure: getNullBool(flags, "ignore-failure"),
	}
}

// readDiskConfig reads the JSON config file. A missing file is only an error
// when it was explicitly asked for.
func readDiskConfig(gs *globalState) (Config, error) {
	data, err := afero.ReadFile(gs.fs, gs.flags.configFilePath)
	if errors.Is(err, fs.ErrNotExist) && gs.flags.configFilePath == gs.defaultFlags.configFilePath {
		return Config{}, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("couldn't read the config file %s: %w", gs.flags.configFilePath, err)
	}

	var conf Config
	if err := json.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("couldn't parse the config file %s: %w", gs.flags.configFilePath, err)
	}
	return conf, nil
}

// Reads configuration variables from the environment.
func readEnvConfig(envMap map[string]string) (Config, error) {
	conf := Config{}
	err := envconfig.Process("", &conf, func(key string) (string, bool) {
		v, ok := envMap[key]
		return v, ok
	})
	return conf, err
}

// getConsolidatedConfig assembles the final configuration, in increasing
// priority: defaults, the JSON config file, environment variables, the
// given extra layers (like a suite file) and finally the CLI flags.
func getConsolidatedConfig(gs *globalState, cliConf Config, extra ...Config) (Config, error) {
	fileConf, err := readDiskConfig(gs)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	envConf, err := readEnvConfig(gs.envVars)
	if err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	conf := defaultConfig().Apply(fileConf).Apply(envConf)
	for _, layer := range extra {
		conf = conf.Apply(layer)
	}
	conf = conf.Apply(cliConf)

	if err := validateConfig(conf); err != nil {
		return Config{}, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	return conf, nil
}

func validateConfig(conf Config) error {
	var errs []error
	if conf.Iterations.Int64 < 0 {
		errs = append(errs, fmt.Errorf("iterations must not be negative, got %d", conf.Iterations.Int64))
	}
	if conf.MaxIterations.Int64 < 0 {
		errs = append(errs, fmt.Errorf("maxIterations must not be negative, got %d", conf.MaxIterations.Int64))
	}
	if conf.Iterations.Int64 == 0 && conf.MaxIterations.Int64 == 0 {
		errs = append(errs, errors.New("maxIterations must be positive when the iteration count is automatic"))
	}
	if conf.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", conf.Timeout.Duration))
	}
	if len(errs) > 0 {
		return errext.WithHint(errors.Join(errs...), "check the config file, the K6BENCH_* environment variables and the flags")
	}
	return nil
}
