// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package check implements the check subcommand, the main entry point of
// ciotest: it runs the whole check suite over one project tree.
package check

import (
	"context"
	"fmt"

	"github.com/ciotools/ciotest/internal/config"
	"github.com/ciotools/ciotest/internal/runner"
	"github.com/urfave/cli/v3"
)

const (
	rootArg        = "root"
	moduleFlag     = "module"
	stagedOnlyFlag = "staged-only"
	formatOnlyFlag = "format-only"
	profileFlag    = "profile-formatting"
	qtFlag         = "qt"
	configFlag     = "config"
)

// CheckCmd is the command that runs the check suite.
var CheckCmd = &cli.Command{
	Name:        "check",
	Description: "Walk the project tree, run every configured check and exit non-zero if any category failed.",
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      rootArg,
			UsageText: "[ROOT]",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    moduleFlag,
			Aliases: []string{"m"},
			Usage:   "Module name measured for coverage and docstring checks",
		},
		&cli.BoolFlag{
			Name:        stagedOnlyFlag,
			Usage:       "Only check files that are staged in git (added or modified)",
			DefaultText: "false",
			Value:       false,
		},
		&cli.BoolFlag{
			Name:        formatOnlyFlag,
			Usage:       "Run the formatting and lint checks but skip the test suite",
			DefaultText: "false",
			Value:       false,
		},
		&cli.BoolFlag{
			Name:        profileFlag,
			Usage:       "Write a CPU profile of the formatter fan-out",
			DefaultText: "false",
			Value:       false,
		},
		&cli.BoolFlag{
			Name:        qtFlag,
			Usage:       "Probe the Qt shim before running the test suite",
			DefaultText: "false",
			Value:       false,
		},
		&cli.StringFlag{
			Name:        configFlag,
			Usage:       "Path to the configuration file",
			DefaultText: "<ROOT>/" + config.FileName,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	root := cmd.StringArg(rootArg)
	if root == "" {
		root = "."
	}

	cfg, err := loadConfig(root, cmd.String(configFlag))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load configuration: %s", err.Error()), 1)
	}

	r := runner.New(runner.Options{
		Root:              root,
		Module:            cmd.String(moduleFlag),
		StagedOnly:        cmd.Bool(stagedOnlyFlag),
		FormatOnly:        cmd.Bool(formatOnlyFlag),
		ProfileFormatting: cmd.Bool(profileFlag),
		QtMode:            cmd.Bool(qtFlag),
	}, cfg)
	r.Out = cmd.Root().Writer

	failed, err := r.Run(ctx)
	if err != nil {
		return cli.Exit("check run aborted: "+err.Error(), 1)
	}

	if !failed.Empty() {
		return cli.Exit(fmt.Sprintf("%d check categories failed", failed.Len()), 1)
	}

	return nil
}

func loadConfig(root, path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}

	return config.Load(root)
}
