// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// CodingHeader is the UTF-8 coding cookie expected at the top of every file.
const CodingHeader = "# -*- coding: utf-8 -*-\n"

var copyrightRe = regexp.MustCompile(`# *Copyright `)

// Headers verifies that every file carries the coding cookie and a copyright
// header. Missing headers are recorded once per category and then inserted,
// so the next run is clean. An existing copyright owner or date is never
// rewritten: the header is a statement of legal reality, and correcting it is
// the reviewer's job, not this tool's.
//
// I/O problems are aggregated and returned; they abort the run.
func Headers(ctx context.Context, fs afero.Fs, files []string, copyrightHeader string, failed *failures.Set) error {
	var result *multierror.Error

	for _, path := range files {
		if err := addHeaders(ctx, fs, path, copyrightHeader, failed); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func addHeaders(ctx context.Context, fs afero.Fs, path, copyrightHeader string, failed *failures.Set) error {
	old, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	contents := string(old)
	haveCoding := strings.Contains(contents, CodingHeader)
	haveCopyright := copyrightRe.MatchString(contents)

	if haveCoding && haveCopyright {
		return nil
	}

	if !haveCoding {
		ctxlog.Info(ctx, "no encoding header comment", "path", path)
		failed.Add(failures.CategoryEncodingHeader)
	}

	if !haveCopyright {
		ctxlog.Info(ctx, "no copyright header comment", "path", path)
		failed.Add(failures.CategoryCopyrightHeader)
	}

	if !haveCopyright && copyrightHeader != "" {
		ctxlog.Info(ctx, "adding copyright header", "path", path)

		contents = copyrightHeader + contents
	}

	if !haveCoding {
		ctxlog.Info(ctx, "adding encoding header", "path", path)

		contents = CodingHeader + contents
	}

	if contents == string(old) {
		return nil
	}

	return atomicReplace(fs, path, []byte(contents))
}

// atomicReplace writes contents to a sibling temp file and renames it over
// path, so a crash mid-write never leaves a half-written source file.
func atomicReplace(fs afero.Fs, path string, contents []byte) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	tmp := path + ".ciotest-tmp"

	if err := afero.WriteFile(fs, tmp, contents, info.Mode()); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)

		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
