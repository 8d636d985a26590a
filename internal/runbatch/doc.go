// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs a single external process non-interactively and reports its Outcome.
//
// Standard output and standard error are read by one controlling loop that waits on both pipes
// through a Multiplexer, so a child blocked on a full stderr pipe can never deadlock a caller that
// is reading stdout. Every complete line is logged as it arrives (stdout at info, stderr at error)
// through the logger carried in the context, and each stream is also accumulated into its own
// buffer in arrival order.
//
// The runner never fails: launch problems are folded into the Outcome. Deciding whether an Outcome
// is a failure is left to the caller.
package runbatch
