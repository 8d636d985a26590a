// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan holds an ordered list of commands and runs them one after another, stopping at the
// first failure.
package plan
