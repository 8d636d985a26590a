// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"

	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
)

type runCall struct {
	call      string
	shellMode bool
	cwd       string
}

// fakeRunner records every call and answers with a fixed outcome.
type fakeRunner struct {
	calls   []runCall
	outcome runbatch.Outcome
}

func (f *fakeRunner) Run(_ context.Context, call string, shellMode bool, cwd string) runbatch.Outcome {
	f.calls = append(f.calls, runCall{call: call, shellMode: shellMode, cwd: cwd})
	return f.outcome
}
