// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package checks

import (
	"context"
	"errors"
	"fmt"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
	"github.com/ciotools/ciotest/internal/toolrun"
)

// Return codes of the docstring checker's command-line contract.
const (
	docstyleNoViolations   = 0
	docstyleViolations     = 1
	docstyleInvalidOptions = 2
)

// ErrUnexpectedDocstyleCode is returned when the docstring checker exits with
// a code outside its documented contract. That is a tool or environment
// problem, not a content violation, so it aborts the run.
var ErrUnexpectedDocstyleCode = errors.New("unexpected exit code from docstring checker")

// Docstyle invokes the docstring checker over path with an explicit argument
// vector. Violations and an invalid configuration are both content failures;
// anything else the tool reports is propagated.
func Docstyle(ctx context.Context, tool, path string, failed *failures.Set) error {
	res, err := runTool(ctx, toolrun.Spec{
		Path: tool,
		Args: []string{path},
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	switch res.ExitCode {
	case docstyleNoViolations:
		ctxlog.Debug(ctx, "docstrings look good", "path", path)
	case docstyleViolations:
		ctxlog.Info(ctx, "docstring checker reported violations", "path", path)
		failed.Add(failures.CategoryDocstrings)
	case docstyleInvalidOptions:
		ctxlog.Info(ctx, "docstring checker found invalid configuration", "path", path)
		failed.Add(failures.CategoryDocstrings)
	default:
		return fmt.Errorf("%w: %d", ErrUnexpectedDocstyleCode, res.ExitCode)
	}

	return nil
}
