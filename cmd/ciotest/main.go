// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the ciotest command-line application.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ciotools/ciotest/cmd"
	"github.com/ciotools/ciotest/internal/color"
	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/signalbroker"
)

// JSONLogEnv forces structured JSON logs regardless of terminal detection.
const JSONLogEnv = "CIOTEST_LOG_JSON"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, rootLogger())
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	err := cmd.RootCmd.Run(ctx, os.Args)
	if err != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}

	os.Exit(0)
}

// rootLogger picks the console logger for interactive use and the JSON logger
// when output is redirected, so CI systems ingest structured records.
func rootLogger() *slog.Logger {
	if os.Getenv(JSONLogEnv) != "" || !color.Enabled() {
		return ctxlog.JSONLogger
	}

	return ctxlog.DefaultLogger
}
