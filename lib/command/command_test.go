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

package command

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/liuxd6825/k6bench/lib/testutils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line, shell string
		args        []string
		err         bool
	}{
		{line: "echo hello", args: []string{"echo", "hello"}},
		{line: `grep -r "two words" .`, args: []string{"grep", "-r", "two words", "."}},
		{line: "echo 'a b' c", args: []string{"echo", "a b", "c"}},
		{line: "echo $HOME | wc", shell: "/bin/sh", args: []string{"/bin/sh", "-c", "echo $HOME | wc"}},
		{line: "exit 1", shell: "bash -e", args: []string{"bash", "-e", "-c", "exit 1"}},
		{line: "", err: true},
		{line: "   ", err: true},
		{line: "echo", shell: "  ", err: true},
		{line: `echo "unterminated`, err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.line+"|"+tc.shell, func(t *testing.T) {
			t.Parallel()
			cmd, err := Parse(tc.line, tc.shell)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.args, cmd.Args)
		})
	}

	_, err := Parse("", "")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestCommandRun(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX utilities")
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		cmd, err := Parse("echo hello", "")
		require.NoError(t, err)
		cmd.Stdout = &stdout
		require.NoError(t, cmd.Run(context.Background()))
		assert.Equal(t, "hello\n", stdout.String())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		cmd, err := Parse("exit 3", "/bin/sh")
		require.NoError(t, err)
		err = cmd.Run(context.Background())
		var failed *FailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "execution", failed.Stage)
		assert.False(t, failed.TimedOut())
		assert.Contains(t, err.Error(), "/bin/sh -c exit 3")
	})

	t.Run("ignored failure", func(t *testing.T) {
		t.Parallel()
		hook := testutils.NewLogHook(logrus.DebugLevel)
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		logger.SetOutput(testutils.NewTestOutput(t))
		logger.AddHook(hook)
		cmd, err := Parse("exit 3", "/bin/sh")
		require.NoError(t, err)
		cmd.IgnoreFailure = true
		cmd.Logger = logger
		require.NoError(t, cmd.Run(context.Background()))
		assert.True(t, testutils.LogContains(hook.Drain(), logrus.DebugLevel, "Ignoring the failure"))
	})

	t.Run("missing executable", func(t *testing.T) {
		t.Parallel()
		cmd, err := Parse("definitely-not-a-k6bench-binary", "")
		require.NoError(t, err)
		cmd.IgnoreFailure = true
		err = cmd.Run(context.Background())
		var failed *FailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "start", failed.Stage)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		cmd, err := Parse("sleep 5", "")
		require.NoError(t, err)
		cmd.Timeout = 50 * time.Millisecond
		cmd.IgnoreFailure = true
		start := time.Now()
		err = cmd.Run(context.Background())
		var failed *FailedError
		require.ErrorAs(t, err, &failed)
		assert.True(t, failed.TimedOut())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 4*time.Second)
	})

	t.Run("operation", func(t *testing.T) {
		t.Parallel()
		cmd, err := Parse("true", "")
		require.NoError(t, err)
		op := cmd.Operation(context.Background())
		require.NoError(t, op())
		require.NoError(t, op())
	})
}
