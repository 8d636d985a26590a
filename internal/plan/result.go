// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/yoctales/internal/color"
)

// Status is the state a step ended in.
type Status int

const (
	// StatusNotRun means the step was not attempted.
	StatusNotRun Status = iota
	// StatusSuccess means the step ran and succeeded.
	StatusSuccess
	// StatusFailed means the step ran and failed.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "not run"
	}
}

// StepResult reports what happened to one step.
type StepResult struct {
	Index    int
	Label    string
	Status   Status
	Error    error
	Duration time.Duration
}

// Results holds one StepResult per step, in plan order.
type Results []*StepResult

// HasError reports whether any step failed.
func (r Results) HasError() bool {
	for _, res := range r {
		if res.Status == StatusFailed {
			return true
		}
	}

	return false
}

// Write writes a summary to w, one line per step, followed by the error of a failed step.
func (r Results) Write(w io.Writer) error {
	for _, res := range r {
		if err := writeStep(w, res); err != nil {
			return err
		}
	}

	return nil
}

func writeStep(w io.Writer, r *StepResult) error {
	var symbol, label string

	switch r.Status {
	case StatusSuccess:
		symbol = color.Colorize("✓", color.FgGreen)
		label = color.Colorize(r.Label, color.Bold, color.FgGreen)
	case StatusFailed:
		symbol = color.Colorize("✗", color.FgRed)
		label = color.Colorize(r.Label, color.Bold, color.FgRed)
	default:
		symbol = color.Colorize("~", color.FgYellow)
		label = color.Colorize(r.Label, color.Bold, color.FgYellow)
	}

	if r.Label == "" {
		label = "[unnamed]"
	}

	line := fmt.Sprintf("%s %3d: %s", symbol, r.Index, label)
	if r.Status == StatusNotRun {
		line += " (not run)"
	} else {
		line += fmt.Sprintf(" (%s)", r.Duration.Round(time.Millisecond))
	}

	if _, err := fmt.Fprintln(w, line); err != nil {
		return err //nolint:wrapcheck
	}

	if r.Error != nil {
		if _, err := fmt.Fprintf(w, "      %s %s\n", color.Colorize("➜ Error:", color.FgRed), r.Error); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}
