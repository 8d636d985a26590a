// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands defines the steps a build plan is made of.
// There are three kinds: a plain shell command, a git clone that is skipped when the repository
// is already present, and a command whose body is written to a script file and run from there.
package commands
