// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
	"github.com/matt-FFFFFF/yoctales/internal/teereader"
)

// ErrFailedToCreatePipe is logged when the operating system pipes could not be created.
var ErrFailedToCreatePipe = errors.New("failed to create pipe")

// Runner executes one external command to completion and reports what happened.
type Runner interface {
	// Run executes call in cwd. When shellMode is true the call is interpreted by a shell,
	// otherwise it is split into arguments and executed directly.
	// Run does not return an error: failures are described by the Outcome.
	Run(ctx context.Context, call string, shellMode bool, cwd string) Outcome
}

var _ Runner = (*OSRunner)(nil)

// OSRunner runs commands as child processes of the current process.
// The zero value is ready to use.
type OSRunner struct {
	Shell          string             // Interpreter for shell mode, defaults to DefaultShell().
	Env            []string           // Child environment, defaults to os.Environ(). Its PATH is used to find the executable.
	NewMultiplexer MultiplexerFactory // Defaults to NewMultiplexer.
}

// NewOSRunner returns an OSRunner with default settings.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run implements Runner.
// There is no timeout: the call returns when the child has exited and both of its output
// streams have been drained.
func (r *OSRunner) Run(ctx context.Context, call string, shellMode bool, cwd string) Outcome {
	logger := ctxlog.Logger(ctx)

	argv, err := Argv(call, shellMode, r.Shell)
	if err != nil {
		logger.Error("could not build command", "call", call, "error", err)
		return launchFailureOutcome(err)
	}

	if len(argv) == 0 {
		logger.Error("command not found", "call", call)
		return launchFailureOutcome(exec.ErrNotFound)
	}

	logger.Info("executing", "cwd", cwd, "argv", argv)

	exe, err := r.lookPath(argv[0])
	if err != nil {
		logger.Error("command not found", "call", call, "error", err)
		return launchFailureOutcome(err)
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		logger.Error("could not create stdout pipe", "error", errors.Join(ErrFailedToCreatePipe, err))
		return launchFailureOutcome(err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()

		logger.Error("could not create stderr pipe", "error", errors.Join(ErrFailedToCreatePipe, err))

		return launchFailureOutcome(err)
	}

	cmd := exec.Command(exe, argv[1:]...) //nolint:gosec,noctx
	cmd.Args[0] = argv[0]
	cmd.Dir = cwd
	cmd.Env = r.Env
	cmd.Stdout = wOut
	cmd.Stderr = wErr

	startErr := cmd.Start()

	// the child holds its own copies of the write ends
	_ = wOut.Close()
	_ = wErr.Close()

	if startErr != nil {
		_ = rOut.Close()
		_ = rErr.Close()

		logger.Error("could not start command", "call", call, "error", startErr)

		return launchFailureOutcome(startErr)
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	stdout := teereader.New(func(line string) { logger.Info(line) })
	stderr := teereader.New(func(line string) { logger.Error(line) })

	newMux := r.NewMultiplexer
	if newMux == nil {
		newMux = NewMultiplexer
	}

	mux, err := newMux(rOut, rErr)
	if err != nil {
		logger.Error("could not watch output streams", "error", err)

		_ = rOut.Close()
		_ = rErr.Close()
	} else {
		if err := drain(mux, stdout, stderr); err != nil {
			logger.Error("output streams were not fully read", "error", err)
		}

		_ = mux.Close()
	}

	waitErr := cmd.Wait()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		logger.Error("waiting for process failed", "error", waitErr)
	}

	code := exitCode(cmd.ProcessState)
	logger.Debug("process finished", "pid", cmd.Process.Pid, "exitCode", code)

	return NewOutcome(stdout.String(), stderr.String(), code)
}

// lookPath resolves a bare executable name against the PATH of r.Env, which is the PATH the child
// will see. Without a custom environment exec.Command does the lookup.
func (r *OSRunner) lookPath(file string) (string, error) {
	if r.Env == nil || runtime.GOOS == goOSWindows || strings.ContainsRune(file, '/') {
		return file, nil
	}

	for _, dir := range filepath.SplitList(envValue(r.Env, "PATH")) {
		if dir == "" {
			continue
		}

		path := filepath.Join(dir, file)

		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() && info.Mode()&0o111 != 0 {
			return path, nil
		}
	}

	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

// envValue returns the last value of key in env, as exec does for duplicates.
func envValue(env []string, key string) string {
	value := ""

	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			value = v
		}
	}

	return value
}

func exitCode(ps *os.ProcessState) int32 {
	if ps == nil {
		return -1
	}

	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int32(ws.Signal()) //nolint:gosec
	}

	return int32(ps.ExitCode()) //nolint:gosec
}
