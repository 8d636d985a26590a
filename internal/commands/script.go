// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/spf13/afero"
)

const (
	scriptSuffix     = "_tmp_script"
	scriptInterp     = "#!/bin/bash"
	scriptTimeLayout = "2006-01-02 15:04:05"
	scriptFileMode   = 0o644
	scriptDirMode    = 0o755
	executeBits      = 0o111
)

// ErrScriptCreate is returned when the script file cannot be written.
var ErrScriptCreate = errors.New("failed to create script file")

// now is the clock used for the script header.
var now = time.Now

var _ Command = (*ScriptCommand)(nil)

// ScriptCommand writes its body to an executable bash script when it is created, and runs that
// script when executed. The script is left in place afterwards.
type ScriptCommand struct {
	spec       Spec
	runner     runbatch.Runner
	Body       string
	ScriptPath string
}

// NewScriptCommand writes <cwd>/<name>_tmp_script and returns a command that runs it.
// Statements in body separated by ";" are written on separate lines.
// The working directory is created if it does not exist.
func NewScriptCommand(ctx context.Context, runner runbatch.Runner, name, body, cwd string) (*ScriptCommand, error) {
	dir := cwd
	if dir == "" {
		dir = "."
	}

	path, err := filepath.Abs(filepath.Join(dir, name+scriptSuffix))
	if err != nil {
		return nil, errors.Join(ErrScriptCreate, err)
	}

	if err := writeScript(path, body); err != nil {
		return nil, errors.Join(ErrScriptCreate, err)
	}

	ctxlog.Info(ctx, "created script", "path", path)

	return &ScriptCommand{
		spec: Spec{
			Name: name,
			Call: runbatch.Quote(path),
			Cwd:  cwd,
		},
		runner:     runnerOrDefault(runner),
		Body:       body,
		ScriptPath: path,
	}, nil
}

// ScriptContent renders the script written for body.
func ScriptContent(body string) string {
	var sb strings.Builder

	sb.WriteString(scriptInterp + "\n")
	sb.WriteString("# Auto-generated by yoctales on " + now().Format(scriptTimeLayout) + "\n")

	for _, stmt := range strings.Split(body, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		sb.WriteString(stmt + "\n")
	}

	return sb.String()
}

func writeScript(path, body string) error {
	fs := FsFactory()

	if err := fs.MkdirAll(filepath.Dir(path), scriptDirMode); err != nil {
		return err //nolint:wrapcheck
	}

	if err := afero.WriteFile(fs, path, []byte(ScriptContent(body)), scriptFileMode); err != nil {
		return err //nolint:wrapcheck
	}

	info, err := fs.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return fs.Chmod(path, info.Mode()|executeBits) //nolint:wrapcheck
}

// Execute implements Command.
func (c *ScriptCommand) Execute(ctx context.Context) error {
	return runSpec(ctx, c.runner, c.spec)
}

// Describe implements Command.
func (c *ScriptCommand) Describe() string {
	return describe(c.spec)
}

// Spec implements Command.
func (c *ScriptCommand) Spec() Spec {
	return c.spec
}

func (c *ScriptCommand) command() {}
