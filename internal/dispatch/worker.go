// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/ciotools/ciotest/internal/ctxlog"
)

var _ Worker = (*processWorker)(nil)

// processWorker wraps one started OS process.
type processWorker struct {
	ps *os.Process
}

// Wait blocks until the process exits and returns its exit code.
func (w *processWorker) Wait() (int, error) {
	state, err := w.ps.Wait()
	if err != nil {
		return -1, err //nolint:wrapcheck
	}

	return state.ExitCode(), nil
}

// ProcessSpawner returns a Spawner that starts
//
//	<path> <args...> <batch...>
//
// with the parent environment plus the given overrides. The worker inherits
// the parent's stdio so tool output lands in the CI log.
func ProcessSpawner(path string, args []string, env map[string]string) Spawner {
	return func(ctx context.Context, batch []string) (Worker, error) {
		environ := os.Environ()
		for k, v := range env {
			environ = append(environ, fmt.Sprintf("%s=%s", k, v))
		}

		argv := slices.Concat([]string{filepath.Base(path)}, args, batch)

		ctxlog.Debug(ctx, "starting worker", "path", path, "files", batch)

		ps, err := os.StartProcess(path, argv, &os.ProcAttr{
			Env:   environ,
			Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
		})
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		ctxlog.Debug(ctx, "worker started", "pid", ps.Pid)

		return &processWorker{ps: ps}, nil
	}
}

// LookPathSpawner resolves name on PATH before delegating to ProcessSpawner.
func LookPathSpawner(name string, args []string, env map[string]string) Spawner {
	return func(ctx context.Context, batch []string) (Worker, error) {
		path, err := exec.LookPath(name)
		if err != nil {
			return nil, errors.Join(ErrSpawnWorker, err)
		}

		return ProcessSpawner(path, args, env)(ctx, batch)
	}
}
