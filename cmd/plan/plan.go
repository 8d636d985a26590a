// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan contains the plan subcommand, a build that never executes anything.
package plan

import (
	"context"

	"github.com/matt-FFFFFF/yoctales/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

// PlanCmd logs the steps a build would take.
var PlanCmd = &cli.Command{
	Name:  "plan",
	Usage: "Show the build plan without executing it",
	Description: `Read a build description and log the plan that the build command would execute.
Nothing is cloned or built. The bitbake script is written to the work directory so it can be inspected.`,
	Flags: cmdstate.Flags(),
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return cmdstate.CreateImage(ctx, cmd, true)
	},
}
