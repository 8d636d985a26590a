// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/spf13/afero"
)

// ErrCommandFailed is matched by every CommandFailedError.
var ErrCommandFailed = errors.New("command failed")

// FsFactory returns the filesystem used to inspect and create files.
// Tests replace it with an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Spec is the immutable description of a command.
type Spec struct {
	Name      string // Label used in logs and plan descriptions.
	Call      string // Command line to run.
	Cwd       string // Working directory, empty means the current directory.
	ShellMode bool   // Interpret Call with a shell rather than splitting it into arguments.
}

// Dir returns the working directory, with "." standing in for an empty Cwd.
func (s Spec) Dir() string {
	if s.Cwd == "" {
		return "."
	}

	return s.Cwd
}

// Command is a single step of a plan.
type Command interface {
	// Execute runs the command to completion. It returns a *CommandFailedError when the
	// process did not succeed.
	Execute(ctx context.Context) error
	// Describe returns a one line, column aligned description.
	Describe() string
	// Spec returns the command's specification.
	Spec() Spec

	command()
}

// CommandFailedError reports a command that exited non-zero or could not be found.
type CommandFailedError struct {
	Name     string
	Call     string
	ExitCode int32
	NotFound bool
}

// Error implements the error interface.
func (e *CommandFailedError) Error() string {
	prefix := fmt.Sprintf("command [%s: %s] failed", e.Name, e.Call)

	if e.ExitCode != 0 {
		return fmt.Sprintf("%s: exit code is not zero (it is %d)", prefix, e.ExitCode)
	}

	return prefix + ": command not found"
}

// Is makes errors.Is(err, ErrCommandFailed) true.
func (e *CommandFailedError) Is(target error) bool {
	return target == ErrCommandFailed
}

func describe(s Spec) string {
	return fmt.Sprintf("%-25s : %-35s : %s", s.Name, s.Dir(), s.Call)
}

func runSpec(ctx context.Context, runner runbatch.Runner, s Spec) error {
	o := runner.Run(ctx, s.Call, s.ShellMode, s.Cwd)
	if o.Succeeded() {
		return nil
	}

	return &CommandFailedError{
		Name:     s.Name,
		Call:     s.Call,
		ExitCode: o.ExitCode,
		NotFound: o.CommandNotFound,
	}
}

func runnerOrDefault(r runbatch.Runner) runbatch.Runner {
	if r == nil {
		return runbatch.NewOSRunner()
	}

	return r
}
