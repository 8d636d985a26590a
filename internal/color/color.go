// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"

	escape = "\033["
	reset  = "\033[0m"
)

// Code is an ANSI SGR parameter.
type Code int

// Text attributes.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground colors.
const (
	FgRed Code = iota + 31
	FgGreen
	FgYellow
	FgBlue
	FgMagenta
	FgCyan
	FgWhite
)

// Hi-intensity foreground colors.
const (
	FgHiRed Code = iota + 91
	FgHiGreen
	FgHiYellow
	FgHiBlue
	FgHiMagenta
	FgHiCyan
	FgHiWhite
)

var enabled atomic.Bool

func init() {
	enabled.Store(isColorCapable())
}

// Enabled reports whether Colorize emits escape codes.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled overrides terminal detection.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Colorize wraps str in the given codes followed by a reset.
// It returns str unchanged when color is disabled or no codes are given.
func Colorize(str string, codes ...Code) string {
	if !Enabled() || len(codes) == 0 {
		return str
	}

	return sequence(codes) + str + reset
}

func sequence(codes []Code) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.Itoa(int(c))
	}

	return escape + strings.Join(parts, ";") + "m"
}

func isColorCapable() bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
