// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/ciotools/ciotest/cmd/check"
	"github.com/ciotools/ciotest/cmd/version"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		check.CheckCmd,
		version.VersionCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "ciotest",
	Description: `ciotest is a CI test-runner helper for Python projects. It walks a
project's source tree, applies formatting, lint, docstring and test tools,
and aggregates pass/fail results into one exit status. All substantive checks
are delegated to external tools; ciotest owns the sequencing, file discovery,
multi-process fan-out for the formatter, and bookkeeping of failures.`,
	Usage:     "ciotest check . --module mypkg",
	Copyright: "Copyright (c) ciotools 2026. All rights reserved.",
	Authors: []any{
		"ciotools",
	},
	EnableShellCompletion: true,
}
