// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ciotest provides the version and commit information for the ciotest application.
package ciotest

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
