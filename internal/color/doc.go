// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides functions to determine if color output is enabled
// and to colorize strings with ANSI escape codes.
// The environment variables NO_COLOR and FORCE_COLOR override terminal
// detection, which is done with the golang.org/x/term package.
package color
