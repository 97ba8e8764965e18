// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

// Package toolrun invokes one external check tool and reports its exit code.
// The tool's combined output is mirrored live to the parent's stdout, so CI
// logs show the tool talking, and is also captured (up to a bound) for
// callers that inspect it.
package toolrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ciotools/ciotest/internal/ctxlog"
)

const maxBufferSize = 8 * 1024 * 1024 // 8MB

var (
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrCouldNotWaitForProcess is returned when a started process could not be reaped.
	ErrCouldNotWaitForProcess = errors.New("could not wait for process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
)

// processWait reaps a started process. It is a package variable so tests can
// substitute a failing wait.
var processWait = func(ps *os.Process) (*os.ProcessState, error) {
	return ps.Wait()
}

// Spec describes one tool invocation.
type Spec struct {
	Path string            // Executable; resolved on PATH when it has no separator.
	Args []string          // Arguments, not including the executable name itself.
	Dir  string            // Working directory; empty means inherit.
	Env  map[string]string // Environment overrides on top of the parent environment.
}

// Result is the outcome of one tool invocation.
type Result struct {
	ExitCode int
	Output   []byte
}

// Run starts the tool and blocks until it exits. A non-zero exit code is not
// an error: the exit-code contract belongs to the caller. An error means the
// environment is broken (missing executable, pipe failure).
func Run(ctx context.Context, spec Spec) (*Result, error) {
	logger := ctxlog.Logger(ctx).With("path", spec.Path)

	path := spec.Path
	if !strings.ContainsRune(path, os.PathSeparator) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return nil, errors.Join(ErrCouldNotStartProcess, err)
		}

		path = resolved
	}

	env := os.Environ()
	for k, v := range spec.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return nil, errors.Join(ErrFailedToCreatePipe, err)
	}

	argv := slices.Concat([]string{filepath.Base(path)}, spec.Args)

	logger.Debug("starting tool", "args", spec.Args, "cwd", spec.Dir)

	ps, err := os.StartProcess(path, argv, &os.ProcAttr{
		Dir: spec.Dir,
		Env: env,
		// stdout and stderr share one pipe so the capture interleaves the
		// way a terminal would show it.
		Files: []*os.File{os.Stdin, wOut, wOut},
	})
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()

		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	capture := newBoundedTee(rOut, os.Stdout, maxBufferSize)
	go capture.drain()

	state, psErr := processWait(ps)

	_ = wOut.Close()

	output, readErr := capture.wait()

	if psErr != nil {
		return nil, errors.Join(ErrCouldNotWaitForProcess, psErr)
	}

	res := &Result{
		ExitCode: state.ExitCode(),
		Output:   output,
	}

	logger.Debug("tool finished", "exitCode", res.ExitCode, "outputBytes", len(output))

	if readErr != nil && !errors.Is(readErr, ErrBufferOverflow) {
		return nil, readErr
	}

	return res, nil
}
