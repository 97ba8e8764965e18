// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"slices"

	"github.com/ciotools/ciotest/internal/ctxlog"
	"github.com/ciotools/ciotest/internal/failures"
)

var (
	// ErrInvalidBatchSize is returned when the batch size is less than one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")
	// ErrInvalidConcurrency is returned when the concurrency limit is less than one.
	ErrInvalidConcurrency = errors.New("max concurrency must be at least 1")
	// ErrNoSpawner is returned when the dispatcher has no spawn function.
	ErrNoSpawner = errors.New("no spawner configured")
	// ErrSpawnWorker is returned when a worker process could not be started.
	// This indicates a broken environment, not a content violation.
	ErrSpawnWorker = errors.New("could not spawn worker")
	// ErrWaitWorker is returned when a spawned worker could not be reaped.
	ErrWaitWorker = errors.New("could not wait for worker")
)

// Worker is one spawned external process bound to exactly one batch of files.
// A worker's identity is not reused.
type Worker interface {
	// Wait blocks until the worker exits and returns its exit status.
	Wait() (int, error)
}

// Spawner starts a worker over one batch of files.
type Spawner func(ctx context.Context, batch []string) (Worker, error)

// burstFactor is the hysteresis multiplier: spawning pauses to drain only
// once the in-flight count exceeds MaxConcurrency*burstFactor, and drains
// down to MaxConcurrency. Burst-then-drain bounds peak concurrency while
// amortizing the bookkeeping of one-in-one-out scheduling.
const burstFactor = 3

// Dispatcher partitions a file list into bounded-size batches and runs each
// batch in an isolated worker process.
type Dispatcher struct {
	// BatchSize is the maximum number of files handed to one worker.
	BatchSize int
	// MaxConcurrency is the bound the in-flight worker count is drained to.
	MaxConcurrency int
	// Category is the single failure category recorded when any worker
	// exits non-zero. Repeated non-zero exits do not duplicate it.
	Category string
	// Spawn starts one worker for a batch.
	Spawn Spawner
}

// Dispatch partitions files into batches of at most BatchSize, drawn from the
// tail of the remaining list, and runs every batch to completion. It returns
// the accumulated failure set once every spawned worker has been reaped.
//
// A worker that cannot be spawned or reaped aborts the whole run: remaining
// in-flight workers are drained so no process is leaked, then the error is
// propagated and no failure set is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, files []string) (*failures.Set, error) {
	if d.BatchSize < 1 {
		return nil, ErrInvalidBatchSize
	}

	if d.MaxConcurrency < 1 {
		return nil, ErrInvalidConcurrency
	}

	if d.Spawn == nil {
		return nil, ErrNoSpawner
	}

	logger := ctxlog.Logger(ctx).With("batchSize", d.BatchSize).With("maxConcurrency", d.MaxConcurrency)
	logger.Debug("dispatching files", "count", len(files))

	failed := &failures.Set{}
	remaining := slices.Clone(files)

	var inFlight []Worker

	reapOldest := func() error {
		w := inFlight[0]
		inFlight = inFlight[1:]

		code, err := w.Wait()
		if err != nil {
			return errors.Join(ErrWaitWorker, err)
		}

		logger.Debug("worker exited", "exitCode", code)

		if code != 0 {
			failed.Add(d.Category)
		}

		return nil
	}

	// drainDiscard reaps every in-flight worker, ignoring exit statuses.
	// Used on the fatal path so that no process outlives Dispatch.
	drainDiscard := func() {
		for _, w := range inFlight {
			_, _ = w.Wait()
		}

		inFlight = nil
	}

	for len(remaining) > 0 {
		batch := takeTail(&remaining, d.BatchSize)

		w, err := d.Spawn(ctx, batch)
		if err != nil {
			drainDiscard()

			return nil, errors.Join(ErrSpawnWorker, err)
		}

		inFlight = append(inFlight, w)

		// Drain at the threshold so the in-flight count never exceeds
		// MaxConcurrency*burstFactor.
		if len(inFlight) >= d.MaxConcurrency*burstFactor {
			for len(inFlight) > d.MaxConcurrency {
				if err := reapOldest(); err != nil {
					drainDiscard()

					return nil, err
				}
			}
		}
	}

	for len(inFlight) > 0 {
		if err := reapOldest(); err != nil {
			drainDiscard()

			return nil, err
		}
	}

	return failed, nil
}

// takeTail removes up to n items from the end of the remaining list and
// returns them, most-recently-popped first.
func takeTail(remaining *[]string, n int) []string {
	items := *remaining
	batch := make([]string, 0, n)

	for n > 0 && len(items) > 0 {
		batch = append(batch, items[len(items)-1])
		items = items[:len(items)-1]
		n--
	}

	*remaining = items

	return batch
}
