// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/toolrun"
)

// Style invokes the style checker once over the whole file list.
// Any non-zero exit records the style category; the violation detail is in
// the tool's own output, which is mirrored to stdout.
func Style(ctx context.Context, tool string, files []string, failed *failures.Set) error {
	if len(files) == 0 {
		ctxlog.Debug(ctx, "style check skipped, no files")
		return nil
	}

	res, err := runTool(ctx, toolrun.Spec{
		Path: tool,
		Args: files,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if res.ExitCode != 0 {
		ctxlog.Info(ctx, "style checker reported errors", "tool", tool, "exitCode", res.ExitCode)
		failed.Add(failures.CategoryStyle)
	}

	return nil
}
