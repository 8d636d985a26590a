// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/yoctales/cmd/build"
	"github.com/matt-FFFFFF/yoctales/cmd/plan"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		build.BuildCmd,
		plan.PlanCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "yoctales",
	Description: `yoctales builds Linux images with Yocto. A YAML file names the image, the layers to
clone and the bitbake invocation; yoctales turns it into a fixed sequence of shell commands
and runs them one after another, logging their output as it arrives.`,
	Usage:     "yoctales build --config yoctales.yml",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
