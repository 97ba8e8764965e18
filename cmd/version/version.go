// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package version implements the version subcommand.
package version

import (
	"context"
	"fmt"

	"github.com/ciotools/ciotest"
	"github.com/urfave/cli/v3"
)

// VersionCmd prints the build version and commit.
var VersionCmd = &cli.Command{
	Name:        "version",
	Description: "Print the ciotest version.",
	Action: func(_ context.Context, cmd *cli.Command) error {
		fmt.Fprintf(cmd.Root().Writer, "ciotest %s (%s)\n", ciotest.Version, ciotest.Commit)
		return nil
	},
}
