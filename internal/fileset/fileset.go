// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fileset discovers the Python files that the check suite operates on.
// The file list is computed once per process and memoized; the discovery is
// single-goroutine so no locking is required.
package fileset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// GitStagedOutput returns the raw NUL-separated output of the staged-file
// query. It is a package variable so tests can substitute a fake.
var GitStagedOutput = func(ctx context.Context, root string) ([]byte, error) {
	// --diff-filter=AM means "added" and "modified", -z means NUL-separated names.
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--name-only", "--diff-filter=AM", "-z")
	cmd.Dir = root

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git staged-file query: %w", err)
	}

	return out, nil
}

var defaultExcludedDirs = []string{"build", "__pycache__"}

// ErrWalk is returned when the source tree cannot be walked.
var ErrWalk = errors.New("failed to walk source tree")

// Discovery walks a project root for Python source files.
// Both the full file list and the git-staged subset are computed on first
// access and cached for the process lifetime.
type Discovery struct {
	root         string
	excludedDirs []string
	fs           afero.Fs

	pyFiles     []string
	pyFilesDone bool
	staged      []string
	stagedDone  bool
}

// New creates a Discovery rooted at root. extraExcludes are directory names
// skipped in addition to hidden directories, "build" and "__pycache__".
func New(root string, extraExcludes ...string) *Discovery {
	return &Discovery{
		root:         root,
		excludedDirs: slices.Concat(defaultExcludedDirs, extraExcludes),
		fs:           FsFactory(),
	}
}

// PyFiles returns every non-hidden *.py file under the root, in walk order.
// The walk skips hidden directories and the excluded directory names.
func (d *Discovery) PyFiles() ([]string, error) {
	if d.pyFilesDone {
		return d.pyFiles, nil
	}

	var pyFiles []string

	err := afero.Walk(d.fs, d.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		name := info.Name()

		if info.IsDir() {
			if path == d.root {
				return nil
			}

			if strings.HasPrefix(name, ".") || slices.Contains(d.excludedDirs, name) {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if strings.HasSuffix(name, ".py") {
			pyFiles = append(pyFiles, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrWalk, err)
	}

	d.pyFiles = pyFiles
	d.pyFilesDone = true

	return d.pyFiles, nil
}

// GitStagedPyFiles returns the subset of PyFiles that are staged in git
// (added or modified in the index).
func (d *Discovery) GitStagedPyFiles(ctx context.Context) ([]string, error) {
	if d.stagedDone {
		return d.staged, nil
	}

	out, err := GitStagedOutput(ctx, d.root)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]struct{})

	for _, name := range strings.Split(string(out), "\x00") {
		if name == "" {
			continue
		}

		changed[filepath.Join(d.root, name)] = struct{}{}
	}

	pyFiles, err := d.PyFiles()
	if err != nil {
		return nil, err
	}

	staged := make([]string, 0, len(changed))

	for _, name := range pyFiles {
		if _, ok := changed[name]; ok {
			staged = append(staged, name)
		}
	}

	d.staged = staged
	d.stagedDone = true

	return d.staged, nil
}

// Files returns the staged subset when stagedOnly is set, otherwise the full list.
func (d *Discovery) Files(ctx context.Context, stagedOnly bool) ([]string, error) {
	if stagedOnly {
		return d.GitStagedPyFiles(ctx)
	}

	return d.PyFiles()
}
