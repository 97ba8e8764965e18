// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/spf13/afero"
)

// EggsDirectory fails the run when <root>/.eggs exists, which means some
// dependency was installed by setuptools instead of the package manager.
func EggsDirectory(ctx context.Context, fs afero.Fs, root string, failed *failures.Set) error {
	eggs := filepath.Join(root, ".eggs")

	exists, err := afero.DirExists(fs, eggs)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", eggs, err)
	}

	if exists {
		ctxlog.Info(ctx, "found .eggs directory, a dependency was not installed via the package manager", "path", eggs)
		failed.Add(failures.CategoryEggsDirectory)
	}

	return nil
}
