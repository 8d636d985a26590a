// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package build contains the build subcommand.
package build

import (
	"context"

	"github.com/matt-FFFFFF/yoctales/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

const dryRunFlag = "dry-run"

// BuildCmd builds a Linux image from a build description.
var BuildCmd = &cli.Command{
	Name:  "build",
	Usage: "Build a Linux image with bitbake",
	Description: `Build a Linux image described by a YAML file.

The layers are cloned into <work-dir>/<name>/layers, bblayers.conf and local.conf are copied
into <work-dir>/<name>/build/conf, the setup commands are run and finally bitbake is invoked from a
generated script. Steps run one at a time and the build stops at the first failure.

Config file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.
`,
	Flags: append(cmdstate.Flags(),
		&cli.BoolFlag{
			Name:        dryRunFlag,
			Usage:       "Only show the plan that would be executed",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	return cmdstate.CreateImage(ctx, cmd, cmd.Bool(dryRunFlag))
}
