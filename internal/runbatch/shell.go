// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/google/shlex"
)

const (
	goOSWindows          = "windows"
	commandSwitchWindows = "/C"
	commandSwitchUnix    = "-c"
	binSh                = "/bin/sh"
	winSystemRootEnv     = "SystemRoot"
)

// ErrParseCommandLine is returned when a call cannot be split into arguments.
var ErrParseCommandLine = errors.New("could not parse command line")

// DefaultShell returns the interpreter used in shell mode: /bin/sh, or cmd.exe on Windows.
func DefaultShell() string {
	if runtime.GOOS == goOSWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return systemRoot + `\System32\cmd.exe`
	}

	return binSh
}

// Argv turns a call into the argument vector to execute.
// In shell mode the call is handed to shell unchanged, otherwise it is split with POSIX
// shell-word rules. An empty call yields an empty argv.
func Argv(call string, shellMode bool, shell string) ([]string, error) {
	if shellMode {
		if shell == "" {
			shell = DefaultShell()
		}

		switch runtime.GOOS {
		case goOSWindows:
			return []string{shell, commandSwitchWindows, call}, nil
		default:
			return []string{shell, commandSwitchUnix, call}, nil
		}
	}

	argv, err := shlex.Split(call)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseCommandLine, call, err)
	}

	return argv, nil
}
