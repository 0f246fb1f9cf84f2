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
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6bench/bench"
	"github.com/liuxd6825/k6bench/lib/fsext"
	"github.com/liuxd6825/k6bench/ui/console"
)

const defaultConfigFileName = "config.json"

// globalFlags contains global config values that apply for all k6bench sub-commands.
type globalFlags struct {
	configFilePath string
	quiet          bool
	noColor        bool
	logOutput      string
	logFormat      string
	verbose        bool
}

// globalState contains the globalFlags and accessors for most of the global
// process-external state like CLI arguments, env vars, standard input, output
// and error, etc. In practice, most of it is normally accessed through the `os`
// package from the Go stdlib.
//
// We group them here so we can prevent direct access to them from the rest of
// the k6bench codebase. This gives us the ability to mock them and have
// robust and easy-to-write integration-like tests to check the k6bench
// end-to-end behavior in any simulated conditions.
type globalState struct {
	ctx context.Context

	fs      fsext.Fs
	getwd   func() (string, error)
	args    []string
	envVars map[string]string

	defaultFlags, flags globalFlags

	console *console.Console
	osExit  func(int)

	// clock is only set by tests, bench.New uses the real one otherwise.
	clock bench.Clock

	logger         *logrus.Logger
	fallbackLogger logrus.FieldLogger
}

// Ideally, this should be the only function in the whole codebase where we use
// global variables and functions from the os package. Anywhere else, things
// like os.Stdout, os.Stderr, os.Exit() and env vars should be passed through
// the globalState.
func newGlobalState(ctx context.Context) *globalState {
	env := buildEnvMap(os.Environ())
	confDir, err := os.UserConfigDir()
	if err != nil {
		confDir = ".config"
	}

	defaultFlags := getDefaultFlags(confDir)
	flags := consolidateGlobalFlags(defaultFlags, env)

	cons := console.New(os.Stdout, os.Stderr, !flags.noColor, env["TERM"])
	logger := cons.GetLogger()

	return &globalState{
		ctx:          ctx,
		fs:           fsext.NewOsFs(),
		getwd:        os.Getwd,
		args:         append(make([]string, 0, len(os.Args)), os.Args...), // copy
		envVars:      env,
		defaultFlags: defaultFlags,
		flags:        flags,
		console:      cons,
		osExit:       os.Exit,
		logger:       logger,
		fallbackLogger: &logrus.Logger{ // we may modify the other one
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter), // no fancy formatting here
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

func getDefaultFlags(homeFolder string) globalFlags {
	return globalFlags{
		configFilePath: filepath.Join(homeFolder, "k6bench", defaultConfigFileName),
		logOutput:      "stderr",
	}
}

func consolidateGlobalFlags(defaultFlags globalFlags, env map[string]string) globalFlags {
	result := defaultFlags

	if val, ok := env["K6BENCH_CONFIG"]; ok {
		result.configFilePath = val
	}
	if val, ok := env["K6BENCH_LOG_OUTPUT"]; ok {
		result.logOutput = val
	}
	if val, ok := env["K6BENCH_LOG_FORMAT"]; ok {
		result.logFormat = val
	}
	if env["K6BENCH_NO_COLOR"] != "" {
		result.noColor = true
	}
	// Support https://no-color.org/, even an empty value should disable the
	// color output from k6bench.
	if _, ok := env["NO_COLOR"]; ok {
		result.noColor = true
	}
	return result
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
