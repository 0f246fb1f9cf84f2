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
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/liuxd6825/k6bench/errext"
	"github.com/liuxd6825/k6bench/errext/exitcodes"
	"github.com/liuxd6825/k6bench/lib/consts"
	"github.com/liuxd6825/k6bench/log"
	"github.com/liuxd6825/k6bench/ui/console"
)

const waitLoggerCloseTimeout = time.Second * 5

// This is to keep all fields needed for the main/root k6bench command
type rootCommand struct {
	globalState *globalState

	cmd            *cobra.Command
	loggerStopped  <-chan struct{}
	loggerIsRemote bool
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{
		globalState: gs,
	}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:               "k6bench",
		Short:             "a self-calibrating micro-benchmarking harness",
		Long:              "\n" + gs.console.Banner(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.FullVersion(),
	}

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.args[1:])
	rootCmd.SetOut(gs.console.StdoutWriter())
	rootCmd.SetErr(gs.console.StderrWriter())
	rootCmd.SetVersionTemplate("k6bench v{{.Version}}\n")

	rootCmd.AddCommand(
		getRunCmd(gs),
		getSuiteCmd(gs),
		getSettingsCmd(gs),
		getValidateCmd(gs),
		getVersionCmd(gs),
	)

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	gs := c.globalState
	if gs.flags.noColor {
		// the console only decides about colors when it is created
		cons := console.New(gs.console.Stdout, gs.console.Stderr, false, gs.envVars["TERM"])
		cons.SetLogger(gs.logger)
		gs.console = cons
	}

	var err error
	c.loggerStopped, err = c.setupLoggers()
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	select {
	case <-c.loggerStopped:
	default:
		c.loggerIsRemote = true
	}

	gs.logger.Debugf("k6bench version: v%s", consts.FullVersion())
	return nil
}

func (c *rootCommand) execute() {
	ctx, cancel := context.WithCancel(c.globalState.ctx)
	defer cancel()
	c.globalState.ctx = ctx

	err := c.cmd.Execute()
	if err == nil {
		cancel()
		c.waitRemoteLogger()
		return
	}

	exitCode := int(errext.ExitCodeOf(err, exitcodes.GenericError))
	errText, fields := errext.Format(err)
	c.globalState.logger.WithFields(fields).Error(errText)
	if c.loggerIsRemote {
		c.globalState.fallbackLogger.WithFields(fields).Error(errText)
		cancel()
		c.waitRemoteLogger()
	}

	c.globalState.osExit(exitCode)
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	gs := newGlobalState(context.Background())

	newRootCommand(gs).execute()
}

func (c *rootCommand) waitRemoteLogger() {
	if c.loggerIsRemote {
		select {
		case <-c.loggerStopped:
		case <-time.After(waitLoggerCloseTimeout):
			c.globalState.fallbackLogger.Errorf("The logger didn't stop in %s", waitLoggerCloseTimeout)
		}
	}
}

func rootCmdPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	// We need to use `gs.flags.<value>` both as the destination and as
	// the value here, since the config values could have already been set by
	// their respective environment variables. However, we then also have to
	// explicitly set the DefValue to the respective default value from
	// `gs.defaultFlags.<value>`, so that the `k6bench --help` message is
	// not messed up...

	flags.StringVar(&gs.flags.logOutput, "log-output", gs.flags.logOutput,
		"change the output for k6bench logs, possible values are stderr,stdout,none,file[=./path.fileformat][,level=info]")
	flags.Lookup("log-output").DefValue = gs.defaultFlags.logOutput

	flags.StringVar(&gs.flags.logFormat, "log-format", gs.flags.logFormat, "log output format, one of text,json,logstash,raw")
	flags.Lookup("log-format").DefValue = gs.defaultFlags.logFormat

	flags.StringVarP(&gs.flags.configFilePath, "config", "c", gs.flags.configFilePath, "JSON config file")
	// And we also need to explicitly set the default value for the usage message here, so things
	// like `K6BENCH_CONFIG="blah" k6bench run -h` don't produce a weird usage message
	flags.Lookup("config").DefValue = gs.defaultFlags.configFilePath
	must(cobra.MarkFlagFilename(flags, "config"))

	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	flags.Lookup("no-color").DefValue = strconv.FormatBool(gs.defaultFlags.noColor)

	flags.BoolVarP(&gs.flags.verbose, "verbose", "v", gs.defaultFlags.verbose, "enable verbose logging")
	flags.BoolVarP(&gs.flags.quiet, "quiet", "q", gs.defaultFlags.quiet, "disable the settings header")

	return flags
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// The returned channel will be closed when the logger has finished flushing and pushing logs after
// the provided context is closed. It is closed if the logger isn't buffering and sending messages
// Asynchronously
func (c *rootCommand) setupLoggers() (<-chan struct{}, error) {
	ch := make(chan struct{})
	close(ch)

	gs := c.globalState
	if gs.flags.verbose {
		gs.logger.SetLevel(logrus.DebugLevel)
	}

	switch line := gs.flags.logOutput; {
	case line == "stderr":
		gs.logger.SetOutput(gs.console.StderrWriter())
	case line == "stdout":
		gs.logger.SetOutput(gs.console.StdoutWriter())
	case line == "none":
		gs.logger.SetOutput(io.Discard)

	case strings.HasPrefix(line, "file"):
		ch = make(chan struct{})
		hook, err := log.FileHookFromConfigLine(gs.ctx, gs.fs, gs.getwd, gs.fallbackLogger, line, ch)
		if err != nil {
			return nil, err
		}

		gs.logger.AddHook(hook)
		gs.logger.SetOutput(io.Discard)

	default:
		return nil, fmt.Errorf("unsupported log output '%s'", line)
	}

	switch gs.flags.logFormat {
	case "raw":
		gs.logger.SetFormatter(&RawFormatter{})
		gs.logger.Debug("Logger format: RAW")
	case "json":
		gs.logger.SetFormatter(&logrus.JSONFormatter{})
		gs.logger.Debug("Logger format: JSON")
	case "logstash":
		gs.logger.SetFormatter(&LogstashJSONFormatter{})
		gs.logger.Debug("Logger format: LOGSTASH")
	default:
		gs.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: gs.console.IsTTY && !gs.flags.noColor, DisableColors: gs.flags.noColor,
		})
		gs.logger.Debug("Logger format: TEXT")
	}
	return ch, nil
}
