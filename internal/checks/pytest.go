// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/toolrun"
)

// coverageFailureMarkers identify a coverage shortfall in the test runner's
// output. The runner exits non-zero either way; the marker is what separates
// "tests failed" from "coverage too low".
var coverageFailureMarkers = []string{
	"Coverage failure:",
	"Required test coverage",
}

// PytestOptions configures the test-suite invocation.
type PytestOptions struct {
	Root        string // Project root; also the working directory.
	Interpreter string // Interpreter executable.
	Module      string // Module measured for coverage.
	Jobs        int    // Worker count for the distributed test plugin.
	QtMode      bool   // Probe for the Qt shim before running.
}

// Args assembles the explicit pytest argument vector. The skip-covered
// behavior is requested as part of the coverage report argument rather than
// injected into the coverage tool's internals.
func (o PytestOptions) Args() []string {
	args := []string{
		"-m", "pytest",
		"-rfew",
		"--durations=10",
		"-n", strconv.Itoa(o.Jobs),
		"--cov-config", filepath.Join(o.Root, ".coveragerc"),
		"--cov=" + o.Module,
		"--cov-report=term-missing:skip-covered",
		"--cov-report=html",
		"--no-cov-on-fail",
	}

	return args
}

// Pytest runs the test suite with coverage. A non-zero exit records the
// tests category, or the coverage category when the output carries a
// coverage-failure marker.
func Pytest(ctx context.Context, opts PytestOptions, failed *failures.Set) error {
	if opts.QtMode {
		probeQt(ctx, opts)
	}

	res, err := runTool(ctx, toolrun.Spec{
		Path: opts.Interpreter,
		Args: opts.Args(),
		Dir:  opts.Root,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if res.ExitCode == 0 {
		return nil
	}

	out := string(res.Output)
	for _, marker := range coverageFailureMarkers {
		if strings.Contains(out, marker) {
			ctxlog.Info(ctx, "test coverage failure", "exitCode", res.ExitCode)
			failed.Add(failures.CategoryCoverage)

			return nil
		}
	}

	ctxlog.Info(ctx, "test suite failed", "exitCode", res.ExitCode)
	failed.Add(failures.CategoryTests)

	return nil
}

// probeQt checks that the interpreter can import the Qt shim. A missing shim
// is not fatal: the suite may still pass without Qt-dependent tests.
func probeQt(ctx context.Context, opts PytestOptions) {
	res, err := runTool(ctx, toolrun.Spec{
		Path: opts.Interpreter,
		Args: []string{"-c", "import qtpy"},
		Dir:  opts.Root,
	})
	if err != nil || res.ExitCode != 0 {
		ctxlog.Warn(ctx, "qt shim not importable, qt-dependent tests may be skipped")
	}
}
