// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package checks implements the individual checks the runner sequences:
// file headers, missing __init__.py files, formatting, style, docstrings,
// the test suite and leftover-artifact detection.
//
// Every substantive check delegates to an external tool over a command-line
// contract; this package owns the invocation and the mapping of exit codes
// to failure categories. Content violations are recorded in the shared
// failure set; a broken environment (missing tool, unreadable file,
// unexpected exit code) is returned as an error instead.
package checks
