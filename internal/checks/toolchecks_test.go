// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/toolrun"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTool replaces the external tool with a canned result and records the
// invocations it saw.
func stubTool(t *testing.T, results ...*toolrun.Result) *[]toolrun.Spec {
	t.Helper()

	var seen []toolrun.Spec

	call := 0
	stub := gostub.Stub(&runTool, func(_ context.Context, spec toolrun.Spec) (*toolrun.Result, error) {
		seen = append(seen, spec)

		res := results[call]
		if call < len(results)-1 {
			call++
		}

		return res, nil
	})
	t.Cleanup(stub.Reset)

	return &seen
}

func TestStylePassing(t *testing.T) {
	seen := stubTool(t, &toolrun.Result{ExitCode: 0})

	failed := &failures.Set{}
	require.NoError(t, Style(context.Background(), "flake8", []string{"a.py", "b.py"}, failed))

	assert.True(t, failed.Empty())
	require.Len(t, *seen, 1)
	assert.Equal(t, "flake8", (*seen)[0].Path)
	assert.Equal(t, []string{"a.py", "b.py"}, (*seen)[0].Args)
}

func TestStyleViolations(t *testing.T) {
	stubTool(t, &toolrun.Result{ExitCode: 1})

	failed := &failures.Set{}
	require.NoError(t, Style(context.Background(), "flake8", []string{"a.py"}, failed))

	assert.Equal(t, []string{failures.CategoryStyle}, failed.Categories())
}

func TestStyleNoFiles(t *testing.T) {
	seen := stubTool(t, &toolrun.Result{ExitCode: 0})

	failed := &failures.Set{}
	require.NoError(t, Style(context.Background(), "flake8", nil, failed))

	assert.Empty(t, *seen, "style checker must not be invoked with an empty file list")
}

func TestStyleToolError(t *testing.T) {
	toolErr := errors.New("flake8 not found")
	stub := gostub.Stub(&runTool, func(_ context.Context, _ toolrun.Spec) (*toolrun.Result, error) {
		return nil, toolErr
	})
	t.Cleanup(stub.Reset)

	failed := &failures.Set{}
	err := Style(context.Background(), "flake8", []string{"a.py"}, failed)
	require.ErrorIs(t, err, toolErr)
	assert.True(t, failed.Empty(), "environment failures are not content violations")
}

func TestDocstyleExitCodeContract(t *testing.T) {
	for _, tc := range []struct {
		name     string
		exitCode int
		want     []string
	}{
		{name: "no violations", exitCode: 0, want: nil},
		{name: "violations", exitCode: 1, want: []string{failures.CategoryDocstrings}},
		{name: "invalid configuration", exitCode: 2, want: []string{failures.CategoryDocstrings}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stubTool(t, &toolrun.Result{ExitCode: tc.exitCode})

			failed := &failures.Set{}
			require.NoError(t, Docstyle(context.Background(), "pydocstyle", "proj/mymod", failed))
			assert.Equal(t, tc.want, failed.Categories())
		})
	}
}

func TestDocstyleUnexpectedCode(t *testing.T) {
	stubTool(t, &toolrun.Result{ExitCode: 42})

	failed := &failures.Set{}
	err := Docstyle(context.Background(), "pydocstyle", "proj/mymod", failed)
	require.ErrorIs(t, err, ErrUnexpectedDocstyleCode)
	assert.True(t, failed.Empty())
}

func TestPytestArgsAreExplicit(t *testing.T) {
	opts := PytestOptions{Root: "proj", Interpreter: "python", Module: "mymod", Jobs: 4}
	args := opts.Args()

	assert.Contains(t, args, "--cov=mymod")
	assert.Contains(t, args, "--cov-report=term-missing:skip-covered")
	assert.Contains(t, args, "--no-cov-on-fail")
	assert.Contains(t, args, filepath.Join("proj", ".coveragerc"))
	assert.Contains(t, args, "4")
}

func TestPytestPass(t *testing.T) {
	stubTool(t, &toolrun.Result{ExitCode: 0})

	failed := &failures.Set{}
	require.NoError(t, Pytest(context.Background(), PytestOptions{
		Root: "proj", Interpreter: "python", Module: "mymod", Jobs: 2,
	}, failed))

	assert.True(t, failed.Empty())
}

func TestPytestFailureRecordsTests(t *testing.T) {
	stubTool(t, &toolrun.Result{ExitCode: 1, Output: []byte("1 failed, 3 passed")})

	failed := &failures.Set{}
	require.NoError(t, Pytest(context.Background(), PytestOptions{
		Root: "proj", Interpreter: "python", Module: "mymod", Jobs: 2,
	}, failed))

	assert.Equal(t, []string{failures.CategoryTests}, failed.Categories())
}

func TestPytestCoverageShortfallRecordsCoverage(t *testing.T) {
	stubTool(t, &toolrun.Result{
		ExitCode: 1,
		Output:   []byte("FAIL Required test coverage of 97% not reached. Total coverage: 91.2%"),
	})

	failed := &failures.Set{}
	require.NoError(t, Pytest(context.Background(), PytestOptions{
		Root: "proj", Interpreter: "python", Module: "mymod", Jobs: 2,
	}, failed))

	assert.Equal(t, []string{failures.CategoryCoverage}, failed.Categories())
}

func TestPytestQtModeProbesShim(t *testing.T) {
	seen := stubTool(t, &toolrun.Result{ExitCode: 0})

	failed := &failures.Set{}
	require.NoError(t, Pytest(context.Background(), PytestOptions{
		Root: "proj", Interpreter: "python", Module: "mymod", Jobs: 2, QtMode: true,
	}, failed))

	require.Len(t, *seen, 2)
	assert.Equal(t, []string{"-c", "import qtpy"}, (*seen)[0].Args)
}
