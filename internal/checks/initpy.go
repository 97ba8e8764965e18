// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/spf13/afero"
)

// AddMissingInitPy creates an empty __init__.py in every package directory
// under moduleRoot that lacks one. Hidden directories and __pycache__ are
// skipped. Creation failures abort the run.
func AddMissingInitPy(ctx context.Context, fs afero.Fs, moduleRoot string) error {
	return afero.Walk(fs, moduleRoot, func(path string, info os.FileInfo, err error) error { //nolint:wrapcheck
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		name := info.Name()
		if path != moduleRoot && (strings.HasPrefix(name, ".") || name == "__pycache__") {
			return filepath.SkipDir
		}

		initPy := filepath.Join(path, "__init__.py")

		exists, err := afero.Exists(fs, initPy)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", initPy, err)
		}

		if exists {
			return nil
		}

		ctxlog.Info(ctx, "creating missing package marker", "path", initPy)

		if err := afero.WriteFile(fs, initPy, nil, 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", initPy, err)
		}

		return nil
	})
}
