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

package errext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/k6bench/errext/exitcodes"
)

func TestErrextHelpers(t *testing.T) {
	t.Parallel()

	const testExitCode exitcodes.ExitCode = 13
	assert.Nil(t, WithHint(nil, "test hint"))
	assert.Nil(t, WithExitCodeIfNone(nil, testExitCode))

	errBase := errors.New("base error")
	errBaseWithHint := WithHint(errBase, "test hint")
	assertHasHint(t, errBaseWithHint, "test hint")
	errBaseWithTwoHints := WithHint(errBaseWithHint, "better hint")
	assertHasHint(t, errBaseWithTwoHints, "better hint (test hint)")

	errWrapperWithHints := fmt.Errorf("wrapper error: %w", errBaseWithTwoHints)
	assertHasHint(t, errWrapperWithHints, "better hint (test hint)")

	errWithExitCode := WithExitCodeIfNone(errWrapperWithHints, testExitCode)
	assertHasHint(t, errWithExitCode, "better hint (test hint)")
	assert.Equal(t, testExitCode, ExitCodeOf(errWithExitCode, 1))

	errWithExitCodeAgain := WithExitCodeIfNone(errWithExitCode, exitcodes.InvalidConfig)
	assert.Equal(t, testExitCode, ExitCodeOf(errWithExitCodeAgain, 1), "the first exit code wins")
	assert.ErrorIs(t, errWithExitCodeAgain, errBase)

	assert.Equal(t, exitcodes.GenericEngine, ExitCodeOf(errBase, exitcodes.GenericEngine))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	msg, fields := Format(nil)
	assert.Empty(t, msg)
	assert.Nil(t, fields)

	msg, fields = Format(errors.New("plain"))
	assert.Equal(t, "plain", msg)
	assert.Empty(t, fields)

	msg, fields = Format(WithExitCodeIfNone(WithHint(errors.New("bad file"), "check the path"), exitcodes.InvalidConfig))
	assert.Equal(t, "bad file", msg)
	assert.Equal(t, "check the path", fields["hint"])
}

func assertHasHint(t *testing.T, err error, hint string) {
	t.Helper()
	var typederr HasHint
	require.ErrorAs(t, err, &typederr)
	assert.Equal(t, typederr.Hint(), hint)
	assert.Contains(t, err.Error(), typederr.Error())
}
