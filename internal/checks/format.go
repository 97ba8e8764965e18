// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/dispatch"
	"github.com/ciotools/ciotest/internal/failures"
)

// ProjectRootEnv is the environment variable that tells formatter workers
// where the project root is.
const ProjectRootEnv = "CIOTEST_PROJECT_ROOT"

// FormatOptions configures the formatter fan-out.
type FormatOptions struct {
	Root           string // Project root, exported to workers via ProjectRootEnv.
	Interpreter    string // Interpreter executable, resolved on PATH.
	Entrypoint     string // Formatter script, relative to Root.
	BatchSize      int
	MaxConcurrency int
	Profile        bool   // CPU-profile the fan-out.
	ProfileOut     string // Profile destination; defaults to ciotest-format.pprof in Root.
}

// Format runs the formatter over files in batched worker processes.
// The formatter is the only check slow enough to be worth profiling, so the
// optional CPU profile wraps just this fan-out; the profile is stopped on
// every exit path.
//
// A worker that cannot be spawned aborts the run. A worker that exits
// non-zero means a file was (or still needs to be) reformatted, which fails
// CI so a pull request that skipped the formatter gets flagged.
func Format(ctx context.Context, opts FormatOptions, files []string, failed *failures.Set) error {
	d := &dispatch.Dispatcher{
		BatchSize:      opts.BatchSize,
		MaxConcurrency: opts.MaxConcurrency,
		Category:       failures.CategoryFormatting,
		Spawn: dispatch.LookPathSpawner(
			opts.Interpreter,
			[]string{filepath.Join(opts.Root, opts.Entrypoint)},
			map[string]string{ProjectRootEnv: opts.Root},
		),
	}

	if opts.Profile {
		stop, err := startProfile(ctx, opts)
		if err != nil {
			return err
		}

		defer stop()
	}

	set, err := d.Dispatch(ctx, files)
	if err != nil {
		return err //nolint:wrapcheck
	}

	failed.Merge(set)

	return nil
}

func startProfile(ctx context.Context, opts FormatOptions) (func(), error) {
	out := opts.ProfileOut
	if out == "" {
		out = filepath.Join(opts.Root, "ciotest-format.pprof")
	}

	f, err := os.Create(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile %s: %w", out, err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("failed to start CPU profile: %w", err)
	}

	ctxlog.Info(ctx, "profiling formatter fan-out", "out", out)

	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
		ctxlog.Info(ctx, "profile written", "out", out)
	}, nil
}
