// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommand_Execute(t *testing.T) {
	tests := []struct {
		name         string
		outcome      runbatch.Outcome
		wantErr      bool
		wantExitCode int32
		wantNotFound bool
	}{
		{
			name:    "success",
			outcome: runbatch.NewOutcome("ok\n", "", 0),
		},
		{
			name:         "non zero exit",
			outcome:      runbatch.NewOutcome("", "boom\n", 2),
			wantErr:      true,
			wantExitCode: 2,
		},
		{
			name:         "not found",
			outcome:      runbatch.NewOutcome("", runbatch.CommandNotFoundMessage, 127),
			wantErr:      true,
			wantExitCode: 127,
			wantNotFound: true,
		},
		{
			name:         "not found text with zero exit",
			outcome:      runbatch.NewOutcome("", "sh: bitbake: command not found\n", 0),
			wantErr:      true,
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{outcome: tt.outcome}
			cmd := NewShellCommand(r, Spec{Name: "step", Call: "echo hi", Cwd: "work", ShellMode: true})

			err := cmd.Execute(context.Background())
			require.Len(t, r.calls, 1)
			assert.Equal(t, runCall{call: "echo hi", shellMode: true, cwd: "work"}, r.calls[0])

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrCommandFailed)

			var cfe *CommandFailedError
			require.True(t, errors.As(err, &cfe))
			assert.Equal(t, "step", cfe.Name)
			assert.Equal(t, "echo hi", cfe.Call)
			assert.Equal(t, tt.wantExitCode, cfe.ExitCode)
			assert.Equal(t, tt.wantNotFound, cfe.NotFound)
		})
	}
}

func TestCommandFailedError_Error(t *testing.T) {
	assert.Equal(t,
		"command [clone: git clone x -b y] failed: exit code is not zero (it is 128)",
		(&CommandFailedError{Name: "clone", Call: "git clone x -b y", ExitCode: 128}).Error())
	assert.Equal(t,
		"command [build: bitbake] failed: command not found",
		(&CommandFailedError{Name: "build", Call: "bitbake", NotFound: true}).Error())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{
			name: "with cwd",
			spec: Spec{Name: "a", Call: "echo hi", Cwd: "work/img"},
			want: "a                         : work/img                            : echo hi",
		},
		{
			name: "empty cwd shows dot",
			spec: Spec{Name: "b", Call: "ls"},
			want: "b                         : .                                   : ls",
		},
		{
			name: "long name is not truncated",
			spec: Spec{Name: "a_very_long_command_name_exceeding", Call: "true", Cwd: "."},
			want: "a_very_long_command_name_exceeding : .                                   : true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewShellCommand(&fakeRunner{}, tt.spec).Describe())
		})
	}
}

func TestNewShellCommand_DefaultRunner(t *testing.T) {
	cmd := NewShellCommand(nil, Spec{Name: "x", Call: "true"})
	assert.IsType(t, &runbatch.OSRunner{}, cmd.runner)
	assert.Equal(t, Spec{Name: "x", Call: "true"}, cmd.Spec())
}
