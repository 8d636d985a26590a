// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"

	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
)

var _ Command = (*ShellCommand)(nil)

// ShellCommand runs its Spec once.
type ShellCommand struct {
	spec   Spec
	runner runbatch.Runner
}

// NewShellCommand creates a ShellCommand. A nil runner means a default runbatch.OSRunner.
func NewShellCommand(runner runbatch.Runner, spec Spec) *ShellCommand {
	return &ShellCommand{
		spec:   spec,
		runner: runnerOrDefault(runner),
	}
}

// Execute implements Command.
func (c *ShellCommand) Execute(ctx context.Context) error {
	return runSpec(ctx, c.runner, c.spec)
}

// Describe implements Command.
func (c *ShellCommand) Describe() string {
	return describe(c.spec)
}

// Spec implements Command.
func (c *ShellCommand) Spec() Spec {
	return c.spec
}

func (c *ShellCommand) command() {}
