// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNilLoggerUsesDefault(t *testing.T) {
	ctx := New(context.Background(), nil)
	assert.Same(t, DefaultLogger, Logger(ctx))
}

func TestNewCustomLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := New(context.Background(), custom)
	assert.Same(t, custom, Logger(ctx))
}

func TestJSONLogger(t *testing.T) {
	assert.NotNil(t, JSONLogger)
	assert.True(t, JSONLogger.Enabled(context.Background(), slog.LevelError))
}

func TestLoggerFallsBackToDefault(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))

	ctx := context.WithValue(context.Background(), loggerKey{}, "not a logger")
	assert.Same(t, DefaultLogger, Logger(ctx))
}
