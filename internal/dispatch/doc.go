// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch fans a file list out to short-lived worker processes.
// Files are grouped into small batches to amortize per-process startup cost
// of a slow, CPU-bound external tool, and the number of concurrently running
// workers is bounded. Workers are reaped in spawn order: first-spawned is
// waited on first, regardless of which worker finishes first.
package dispatch
