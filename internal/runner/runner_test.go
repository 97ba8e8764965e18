// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ciotools/ciotest/internal/checks"
	"github.com/ciotools/ciotest/internal/config"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/fileset"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calls records which checks ran, in order.
type calls struct {
	order []string
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.MaxConcurrency = 2

	return cfg
}

// stubChecks replaces every check seam with a recording fake. failCategories
// maps a check name to the category its fake records.
func stubChecks(t *testing.T, c *calls, failCategories map[string]string) {
	t.Helper()

	record := func(name string, failed *failures.Set) {
		c.order = append(c.order, name)
		if cat, ok := failCategories[name]; ok {
			failed.Add(cat)
		}
	}

	stubs := gostub.Stub(&headersCheck,
		func(_ context.Context, _ afero.Fs, _ []string, _ string, failed *failures.Set) error {
			record("headers", failed)
			return nil
		})
	stubs.Stub(&initPyCheck, func(_ context.Context, _ afero.Fs, _ string) error {
		c.order = append(c.order, "initpy")
		return nil
	})
	stubs.Stub(&formatCheck,
		func(_ context.Context, _ checks.FormatOptions, _ []string, failed *failures.Set) error {
			record("format", failed)
			return nil
		})
	stubs.Stub(&styleCheck,
		func(_ context.Context, _ string, _ []string, failed *failures.Set) error {
			record("style", failed)
			return nil
		})
	stubs.Stub(&docstyleCheck,
		func(_ context.Context, _, _ string, failed *failures.Set) error {
			record("docstyle", failed)
			return nil
		})
	stubs.Stub(&pytestCheck,
		func(_ context.Context, _ checks.PytestOptions, failed *failures.Set) error {
			record("pytest", failed)
			return nil
		})
	stubs.Stub(&eggsCheck,
		func(_ context.Context, _ afero.Fs, _ string, failed *failures.Set) error {
			record("eggs", failed)
			return nil
		})
	t.Cleanup(stubs.Reset)
}

func stubProjectFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0o755))
		require.NoError(t, afero.WriteFile(fs, f, []byte("pass\n"), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	stubs.Stub(&fileset.FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	return fs
}

func newTestRunner(opts Options) (*Runner, *bytes.Buffer) {
	r := New(opts, testConfig())
	out := &bytes.Buffer{}
	r.Out = out

	return r, out
}

func TestRunSequencesAllChecks(t *testing.T) {
	stubProjectFs(t, "proj/mymod/a.py")

	c := &calls{}
	stubChecks(t, c, nil)

	r, out := newTestRunner(Options{Root: "proj", Module: "mymod"})
	failed, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, failed.Empty())
	assert.Equal(t, []string{"initpy", "headers", "format", "style", "docstyle", "pytest", "eggs"}, c.order)
	assert.Contains(t, out.String(), "All tests passed!")
}

func TestRunFormatOnlySkipsPytest(t *testing.T) {
	stubProjectFs(t, "proj/mymod/a.py")

	c := &calls{}
	stubChecks(t, c, nil)

	r, out := newTestRunner(Options{Root: "proj", Module: "mymod", FormatOnly: true})
	failed, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, failed.Empty())
	assert.NotContains(t, c.order, "pytest")
	assert.Contains(t, out.String(), "Formatting looks good, but didn't run tests.")
}

func TestRunWithoutModuleSkipsModuleChecks(t *testing.T) {
	stubProjectFs(t, "proj/a.py")

	c := &calls{}
	stubChecks(t, c, nil)

	r, _ := newTestRunner(Options{Root: "proj"})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, c.order, "initpy")
	assert.NotContains(t, c.order, "docstyle")
}

func TestRunAggregatesFailuresAcrossChecks(t *testing.T) {
	stubProjectFs(t, "proj/mymod/a.py")

	c := &calls{}
	stubChecks(t, c, map[string]string{
		"format": failures.CategoryFormatting,
		"style":  failures.CategoryStyle,
		"pytest": failures.CategoryTests,
	})

	r, out := newTestRunner(Options{Root: "proj", Module: "mymod"})
	failed, err := r.Run(context.Background())
	require.NoError(t, err, "content violations must not abort the run")

	assert.Equal(t,
		[]string{failures.CategoryFormatting, failures.CategoryStyle, failures.CategoryTests},
		failed.Categories())
	assert.Contains(t, out.String(), "Failures in: formatting, style, tests")
}

func TestRunEnvironmentFailureAborts(t *testing.T) {
	stubProjectFs(t, "proj/mymod/a.py")

	c := &calls{}
	stubChecks(t, c, nil)

	envErr := errors.New("formatter interpreter missing")
	stub := gostub.Stub(&formatCheck,
		func(_ context.Context, _ checks.FormatOptions, _ []string, _ *failures.Set) error {
			c.order = append(c.order, "format")
			return envErr
		})
	t.Cleanup(stub.Reset)

	r, _ := newTestRunner(Options{Root: "proj", Module: "mymod"})
	failed, err := r.Run(context.Background())
	require.ErrorIs(t, err, envErr)

	assert.Nil(t, failed)
	assert.NotContains(t, c.order, "style", "checks after the failure must not run")
}

func TestRunChecksFreshPackageMarkers(t *testing.T) {
	fs := stubProjectFs(t, "proj/mymod/a.py")

	c := &calls{}
	stubChecks(t, c, nil)

	// Marker creation and the header check run for real; everything
	// downstream stays stubbed.
	stubs := gostub.Stub(&initPyCheck, checks.AddMissingInitPy)
	stubs.Stub(&headersCheck, checks.Headers)
	t.Cleanup(stubs.Reset)

	r, _ := newTestRunner(Options{Root: "proj", Module: "mymod"})
	failed, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, failed.Categories(), failures.CategoryEncodingHeader,
		"a marker created in this run must be flagged in the same run")

	got, err := afero.ReadFile(fs, filepath.Join("proj", "mymod", "__init__.py"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), checks.CodingHeader),
		"a marker created in this run must be header-fixed in the same run")
}

func TestRunCleansBuildTmp(t *testing.T) {
	fs := stubProjectFs(t, "proj/mymod/a.py", "proj/build/tmp/junk.txt")

	c := &calls{}
	stubChecks(t, c, nil)

	r, out := newTestRunner(Options{Root: "proj", Module: "mymod"})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, "proj/build/tmp")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Contains(t, out.String(), "Cleaning up")
}

func TestRunStagedOnlyReportsSkip(t *testing.T) {
	stubProjectFs(t, "proj/mymod/a.py", "proj/mymod/b.py")

	stub := gostub.Stub(&fileset.GitStagedOutput, func(_ context.Context, _ string) ([]byte, error) {
		return []byte("mymod/a.py\x00"), nil
	})
	t.Cleanup(stub.Reset)

	c := &calls{}
	stubChecks(t, c, nil)

	r, out := newTestRunner(Options{Root: "proj", Module: "mymod", StagedOnly: true})
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "git-staged")
	assert.Contains(t, out.String(), "Skipped some files")
}
