// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner sequences the check suite over one project tree and
// aggregates the outcome into a single failure set.
//
// Content violations are recorded and the run continues, so one pass
// discovers every failing category. Environment failures (missing tools,
// unreadable files, unexpected tool exit codes) abort immediately.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ciotools/ciotest/internal/checks"
	"github.com/ciotools/ciotest/internal/color"
	"github.com/ciotools/ciotest/internal/config"
	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/fileset"
	"github.com/spf13/afero"
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Check seams, package variables so tests can substitute fakes.
var (
	headersCheck  = checks.Headers
	initPyCheck   = checks.AddMissingInitPy
	formatCheck   = checks.Format
	styleCheck    = checks.Style
	docstyleCheck = checks.Docstyle
	pytestCheck   = checks.Pytest
	eggsCheck     = checks.EggsDirectory
)

// Options selects what one run covers.
type Options struct {
	Root              string // Project root to check.
	Module            string // Module name for coverage and docstring checks.
	StagedOnly        bool   // Restrict to git-staged files.
	FormatOnly        bool   // Skip the test suite.
	ProfileFormatting bool   // CPU-profile the formatter fan-out.
	QtMode            bool   // Probe the Qt shim before running tests.
}

// Runner walks one project tree, applies every check and accumulates the
// failed categories.
type Runner struct {
	// Out receives the user-facing progress and summary lines.
	Out io.Writer

	opts   Options
	cfg    *config.Config
	fs     afero.Fs
	disc   *fileset.Discovery
	failed *failures.Set
}

// New creates a Runner for the given options and configuration.
func New(opts Options, cfg *config.Config) *Runner {
	return &Runner{
		Out:    os.Stdout,
		opts:   opts,
		cfg:    cfg,
		fs:     FsFactory(),
		disc:   fileset.New(opts.Root, cfg.ExcludeDirs...),
		failed: &failures.Set{},
	}
}

// Run executes the whole check sequence and returns the accumulated failure
// set. A non-nil error means the environment is broken and the results are
// incomplete.
func (r *Runner) Run(ctx context.Context) (*failures.Set, error) {
	r.clean(ctx)

	if r.opts.StagedOnly {
		staged, err := r.disc.GitStagedPyFiles(ctx)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		all, err := r.disc.PyFiles()
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		fmt.Fprintf(r.Out, "Only formatting %d git-staged python files, skipping %d files\n",
			len(staged), len(all))
	}

	// Package markers must be created before the first walk, so files
	// created here are discovered and header-checked in the same run.
	if r.opts.Module != "" {
		if err := initPyCheck(ctx, r.fs, filepath.Join(r.opts.Root, r.opts.Module)); err != nil {
			return nil, err
		}
	}

	files, err := r.disc.Files(ctx, r.opts.StagedOnly)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	fmt.Fprintln(r.Out, "Checking file headers...")

	if err := headersCheck(ctx, r.fs, files, r.cfg.CopyrightHeader, r.failed); err != nil {
		return nil, err
	}

	fmt.Fprintln(r.Out, "Formatting files...")
	fmt.Fprintf(r.Out, "%d workers to run formatter processes\n", r.cfg.MaxConcurrency)

	if err := formatCheck(ctx, checks.FormatOptions{
		Root:           r.opts.Root,
		Interpreter:    r.cfg.Interpreter,
		Entrypoint:     r.cfg.FormatterEntrypoint,
		BatchSize:      r.cfg.BatchSize,
		MaxConcurrency: r.cfg.MaxConcurrency,
		Profile:        r.opts.ProfileFormatting,
	}, files, r.failed); err != nil {
		return nil, err
	}

	fmt.Fprintf(r.Out, "running %s...\n", r.cfg.StyleTool)

	if err := styleCheck(ctx, r.cfg.StyleTool, files, r.failed); err != nil {
		return nil, err
	}

	if r.opts.Module != "" {
		fmt.Fprintf(r.Out, "running %s...\n", r.cfg.DocstyleTool)

		if err := docstyleCheck(ctx, r.cfg.DocstyleTool,
			filepath.Join(r.opts.Root, r.opts.Module), r.failed); err != nil {
			return nil, err
		}
	}

	if !r.opts.FormatOnly {
		fmt.Fprintln(r.Out, "running pytest...")

		if err := pytestCheck(ctx, checks.PytestOptions{
			Root:        r.opts.Root,
			Interpreter: r.cfg.Interpreter,
			Module:      r.opts.Module,
			Jobs:        r.cfg.MaxConcurrency,
			QtMode:      r.opts.QtMode,
		}, r.failed); err != nil {
			return nil, err
		}
	}

	if err := eggsCheck(ctx, r.fs, r.opts.Root, r.failed); err != nil {
		return nil, err
	}

	r.summarize(ctx, files)

	return r.failed, nil
}

// clean removes leftover build trash as best it can. Failure to clean is
// logged, not fatal.
func (r *Runner) clean(ctx context.Context) {
	buildTmp := filepath.Join(r.opts.Root, "build", "tmp")

	exists, err := afero.DirExists(r.fs, buildTmp)
	if err != nil || !exists {
		return
	}

	fmt.Fprintf(r.Out, "Cleaning up %s\n", buildTmp)

	if err := r.fs.RemoveAll(buildTmp); err != nil {
		ctxlog.Warn(ctx, "failed to clean build directory", "path", buildTmp, "error", err)
	}
}

func (r *Runner) summarize(_ context.Context, files []string) {
	if !r.failed.Empty() {
		fmt.Fprintln(r.Out, color.Colorize("Failures in: "+r.failed.String(), color.FgRed, color.Bold))
		return
	}

	if r.opts.StagedOnly {
		fmt.Fprintf(r.Out, "Skipped some files (only checked %d added/modified files).\n", len(files))
	}

	if r.opts.FormatOnly {
		fmt.Fprintln(r.Out, color.Colorize("Formatting looks good, but didn't run tests.", color.FgGreen))
		return
	}

	fmt.Fprintln(r.Out, color.Colorize("All tests passed!", color.FgGreen))
}
