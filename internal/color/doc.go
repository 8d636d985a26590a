// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for console output.
//
// Colour is on when stdout is a terminal, forced on by FORCE_COLOR and forced off by NO_COLOR.
// NO_COLOR always wins.
package color
