// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate holds the flags shared by the subcommands and turns them into the logging
// context and factory options for a run.
package cmdstate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/yoctales/internal/ctxlog"
	"github.com/matt-FFFFFF/yoctales/internal/factory"
	"github.com/matt-FFFFFF/yoctales/internal/runbatch"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	ConfigFlag    = "config"
	LogLevelFlag  = "log-level"
	LogFormatFlag = "log-format"
	WorkDirFlag   = "work-dir"
	ShellFlag     = "shell"

	cliExitStr      = ""
	logFormatPretty = "pretty"
	logFormatJSON   = "json"
)

// ErrLogFormat is returned for an unknown --log-format value.
var ErrLogFormat = errors.New("unknown log format")

// Flags returns fresh copies of the flags shared by build and plan.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "Specify the URL of the YAML build description. " +
				"bblayers.conf and local.conf must sit next to it. " +
				"Supports Hashicorp's go-getter syntax for fetching from remote sources.",
			Required:  true,
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     LogLevelFlag,
			Usage:    "Set the log level: DEBUG, INFO, WARNING, ERROR or CRITICAL",
			Sources:  cli.EnvVars(ctxlog.EnvVarName()),
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     LogFormatFlag,
			Usage:    "Set the log format: pretty or json",
			Value:    logFormatPretty,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      WorkDirFlag,
			Usage:     "Directory under which the per-image work directory is created",
			Value:     factory.DefaultWorkRoot,
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     ShellFlag,
			Usage:    "Interpreter for setup commands that run in a shell",
			Value:    runbatch.DefaultShell(),
			OnlyOnce: true,
		},
	}
}

// Setup applies the logging flags and returns the context to run with.
func Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if lvl := cmd.String(LogLevelFlag); lvl != "" {
		level, err := ctxlog.ParseLevel(lvl)
		if err != nil {
			return ctx, err //nolint:wrapcheck
		}

		ctxlog.LevelVar.Set(level)
	}

	switch strings.ToLower(cmd.String(LogFormatFlag)) {
	case "", logFormatPretty:
		return ctx, nil
	case logFormatJSON:
		return ctxlog.New(ctx, ctxlog.JSONLogger), nil
	default:
		return ctx, fmt.Errorf("%w: %q", ErrLogFormat, cmd.String(LogFormatFlag))
	}
}

// Options returns the factory options selected on the command line.
func Options(cmd *cli.Command) factory.Options {
	return factory.Options{
		ConfigURL: cmd.String(ConfigFlag),
		WorkRoot:  cmd.String(WorkDirFlag),
		Runner:    &runbatch.OSRunner{Shell: cmd.String(ShellFlag)},
	}
}

// CreateImage runs the image factory with the options from cmd and writes the run summary to
// the root command's writer. Any failure is reported as a cli exit error with code 1.
func CreateImage(ctx context.Context, cmd *cli.Command, dryRun bool) error {
	ctx, err := Setup(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("starting", "config", cmd.String(ConfigFlag), "dryRun", dryRun)

	opts := Options(cmd)
	opts.DryRun = dryRun

	res, err := factory.CreateImage(ctx, opts)

	if len(res) > 0 {
		if werr := res.Write(cmd.Root().Writer); werr != nil {
			logger.Error("failed to write results", "error", werr)
		}
	}

	if err != nil {
		logger.Error("image creation failed", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}
