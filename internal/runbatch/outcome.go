// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io/fs"
	"os/exec"
	"strings"
)

const (
	// ExitCodeCannotExecute is reported when a command was found but could not be started.
	ExitCodeCannotExecute int32 = 126
	// ExitCodeCommandNotFound is reported by shells, and by the runner, for unknown commands.
	ExitCodeCommandNotFound int32 = 127
	// CommandNotFoundMessage is the stderr text of a normalised launch failure.
	CommandNotFoundMessage = "Command not found"

	notFoundNeedle = "command not found"
)

// Outcome is the result of one execution attempt.
type Outcome struct {
	StdOut          string // Everything the process wrote to stdout, in arrival order.
	StdErr          string // Everything the process wrote to stderr, in arrival order.
	ExitCode        int32  // Raw exit status. Death by signal N is reported as 128+N.
	CommandNotFound bool   // Exit code 127 or "command not found" (any case) in stderr.
}

// NewOutcome builds an Outcome and derives CommandNotFound.
func NewOutcome(stdout, stderr string, exitCode int32) Outcome {
	return Outcome{
		StdOut:          stdout,
		StdErr:          stderr,
		ExitCode:        exitCode,
		CommandNotFound: isCommandNotFound(exitCode, stderr),
	}
}

// Succeeded reports whether the exit code is zero and no command-not-found condition was seen.
func (o Outcome) Succeeded() bool {
	return o.ExitCode == 0 && !o.CommandNotFound
}

// isCommandNotFound covers both ways "not found" surfaces: a shell prints it on stderr, while a
// failed exec reports status 127.
func isCommandNotFound(exitCode int32, stderr string) bool {
	return exitCode == ExitCodeCommandNotFound || strings.Contains(strings.ToLower(stderr), notFoundNeedle)
}

// launchFailureOutcome folds an error raised before the process ran into an Outcome.
func launchFailureOutcome(err error) Outcome {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return Outcome{
			StdErr:          CommandNotFoundMessage,
			ExitCode:        ExitCodeCommandNotFound,
			CommandNotFound: true,
		}
	}

	return NewOutcome("", err.Error(), ExitCodeCannotExecute)
}
