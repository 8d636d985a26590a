// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matt-FFFFFF/yoctales/internal/commands"
	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
)

var (
	// ErrPlanFailed is matched by the error returned when a step fails.
	ErrPlanFailed = errors.New("plan failed")
	// ErrPlanInterrupted is returned when the context is cancelled between steps.
	ErrPlanInterrupted = errors.New("plan interrupted")
)

// StepError identifies the step that stopped the plan.
type StepError struct {
	Index int
	Label string
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Label, e.Err)
}

// Unwrap returns the command's error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPlanFailed) true.
func (e *StepError) Is(target error) bool {
	return target == ErrPlanFailed
}

// Plan is an ordered sequence of commands.
type Plan struct {
	commands []commands.Command
}

// New returns a plan holding cmds in order.
func New(cmds ...commands.Command) *Plan {
	return &Plan{commands: slices.Clone(cmds)}
}

// Add appends cmd. There is no validation and no de-duplication.
func (p *Plan) Add(cmd commands.Command) {
	p.commands = append(p.commands, cmd)
}

// Len returns the number of commands.
func (p *Plan) Len() int {
	return len(p.commands)
}

// Commands returns a copy of the command sequence.
func (p *Plan) Commands() []commands.Command {
	return slices.Clone(p.commands)
}

// Describe returns one line per command, prefixed with its index.
func (p *Plan) Describe() string {
	lines := make([]string, 0, len(p.commands))

	for i, cmd := range p.commands {
		lines = append(lines, fmt.Sprintf("%3d: %s", i, cmd.Describe()))
	}

	return strings.Join(lines, "\n")
}

// Execute runs the commands in order and stops at the first failure, which is returned as a
// *StepError. Nothing is rolled back. The returned Results have one entry per command; those that
// were not attempted have StatusNotRun.
func (p *Plan) Execute(ctx context.Context) (Results, error) {
	results := make(Results, 0, len(p.commands))

	var planErr error

	for i, cmd := range p.commands {
		label := cmd.Spec().Name

		if planErr != nil {
			results = append(results, &StepResult{Index: i, Label: label, Status: StatusNotRun})
			continue
		}

		if err := ctx.Err(); err != nil {
			ctxlog.Warn(ctx, "plan interrupted", "step", i)

			planErr = errors.Join(ErrPlanInterrupted, err)
			results = append(results, &StepResult{Index: i, Label: label, Status: StatusNotRun})

			continue
		}

		ctxlog.Info(ctx, "executing step", "step", i, "name", label)

		start := time.Now()
		err := cmd.Execute(ctx)
		res := &StepResult{
			Index:    i,
			Label:    label,
			Status:   StatusSuccess,
			Duration: time.Since(start),
		}

		if err != nil {
			ctxlog.Error(ctx, "step failed", "step", i, "name", label, "error", err)

			res.Status = StatusFailed
			res.Error = err
			planErr = &StepError{Index: i, Label: label, Err: err}
		}

		results = append(results, res)
	}

	return results, planErr
}
