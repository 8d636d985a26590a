// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns the first termination signal into context cancellation.
//
// A running command is never killed: cancellation stops the build before its next step.
// After the first signal, delivery is stopped and the default disposition applies again,
// so a second signal terminates yoctales immediately.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
)

// DefaultSignals are watched when New is called without signals.
var DefaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}

// New starts intercepting sigs, or DefaultSignals when none are given, and returns the channel
// they are delivered on. Pass the channel to Watch.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	if len(sigs) == 0 {
		sigs = DefaultSignals
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)
	ctxlog.Debug(ctx, "watching signals", "signals", sigs)

	return sigCh
}

// Watch cancels the context on the first signal received on sigCh and then stops delivery to
// sigCh, restoring the default behaviour for later signals.
// It returns after the first signal, or when ctx is done.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	defer signal.Stop(sigCh)

	select {
	case sig, ok := <-sigCh:
		if !ok {
			return
		}

		ctxlog.Warn(ctx, "watchdog",
			"detail", "received signal, stopping after the current step; signal again to terminate now",
			"signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
}
