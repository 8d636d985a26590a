// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package factory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/matt-FFFFFF/yoctales/internal/commands"
	"github.com/matt-FFFFFF/yoctales/internal/config"
	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
	"github.com/matt-FFFFFF/yoctales/internal/plan"
	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/matt-FFFFFF/yoctales/internal/source"
	"github.com/spf13/afero"
)

const (
	// DefaultWorkRoot is where per-image work directories are created.
	DefaultWorkRoot = "work"
	// BuildScriptName is the name of the final bitbake step and its script.
	BuildScriptName = "build_image_with_bitbake"
)

var (
	// ErrBuildConfMissing is returned when a required build configuration file is absent.
	ErrBuildConfMissing = errors.New("build configuration file not found, please create it before running the tool")
	// ErrBuildPlan is returned when the plan cannot be constructed.
	ErrBuildPlan = errors.New("failed to build plan")
)

// BuildConfFiles are the files expected next to the configuration, in copy order.
var BuildConfFiles = []string{"bblayers.conf", "local.conf"}

// FsFactory returns the filesystem scanned for build configuration files.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Options control how an image is created.
type Options struct {
	ConfigURL string          // Location of the build description, see source.Fetch.
	DryRun    bool            // Log the plan without executing it.
	WorkRoot  string          // Parent of the per-image work directory, DefaultWorkRoot when empty.
	Runner    runbatch.Runner // Runs every command, a runbatch.OSRunner when nil.
}

// WorkDir returns the directory an image named name is built in.
func (o Options) WorkDir(name string) string {
	root := o.WorkRoot
	if root == "" {
		root = DefaultWorkRoot
	}

	return filepath.Join(root, name)
}

// ScanBuildConfFiles returns the paths of the build configuration files in dir.
// Every file in BuildConfFiles must exist.
func ScanBuildConfFiles(dir string) ([]string, error) {
	fs := FsFactory()
	found := make([]string, 0, len(BuildConfFiles))

	for _, name := range BuildConfFiles {
		path := filepath.Join(dir, name)

		ok, err := afero.Exists(fs, path)
		if err != nil || !ok {
			return nil, fmt.Errorf("%w: %s", ErrBuildConfMissing, path)
		}

		found = append(found, path)
	}

	return found, nil
}

// BuildPlan creates the plan for def. confFiles are copied into the build's conf directory.
// Building the plan writes the bitbake script into the work directory.
func BuildPlan(ctx context.Context, def *config.Definition, confFiles []string, opts Options) (*plan.Plan, error) {
	work := opts.WorkDir(def.Name)
	layersDir := filepath.Join(work, "layers")
	confDir := filepath.Join(work, "build", "conf")
	r := opts.Runner

	p := plan.New()

	p.Add(commands.NewShellCommand(r, commands.Spec{
		Name: "create work dir",
		Call: runbatch.Join("mkdir", "-p", layersDir),
	}))

	for i, l := range def.Layers {
		p.Add(commands.NewGitCloneCommand(r, fmt.Sprintf("clone layer %3d", i), l.URI, l.Revision, layersDir))
	}

	p.Add(commands.NewShellCommand(r, commands.Spec{
		Name: "create build conf dir",
		Call: runbatch.Join("mkdir", "-p", confDir),
	}))

	for _, f := range confFiles {
		p.Add(commands.NewShellCommand(r, commands.Spec{
			Name: "copy " + filepath.Base(f),
			Call: runbatch.Join("cp", f, confDir),
		}))
	}

	for i, c := range def.SetupCommands() {
		p.Add(commands.NewShellCommand(r, commands.Spec{
			Name:      fmt.Sprintf("setup command %3d", i),
			Call:      c.Call,
			Cwd:       filepath.Join(work, c.Path),
			ShellMode: c.Shell,
		}))
	}

	body := def.Bitbake.SetupScript() + "\n" + def.Bitbake.Command()

	script, err := commands.NewScriptCommand(ctx, r, BuildScriptName, body, work)
	if err != nil {
		return nil, errors.Join(ErrBuildPlan, err)
	}

	p.Add(script)

	return p, nil
}

// CreateImage fetches the build description, builds the plan and, unless this is a dry run,
// executes it. The plan results are returned even when execution fails.
func CreateImage(ctx context.Context, opts Options) (plan.Results, error) {
	start := time.Now()

	defer func() {
		ctxlog.Info(ctx, fmt.Sprintf("Linux image creation took %.5f minutes.", time.Since(start).Minutes()))
	}()

	src, err := source.Fetch(ctx, opts.ConfigURL)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	defer src.Close() //nolint:errcheck

	confFiles, err := ScanBuildConfFiles(src.Dir)
	if err != nil {
		return nil, err
	}

	def, err := config.Load(src.Path())
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	ctxlog.Info(ctx, "configuration read", "path", src.Path(), "name", def.Name)
	ctxlog.Info(ctx, "Creating plan to build linux image...")

	p, err := BuildPlan(ctx, def, confFiles, opts)
	if err != nil {
		return nil, err
	}

	ctxlog.Info(ctx, "Plan:\n"+p.Describe())

	if opts.DryRun {
		return nil, nil
	}

	return p.Execute(ctx) //nolint:wrapcheck
}
