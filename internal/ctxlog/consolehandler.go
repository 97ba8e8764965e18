// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ciotools/ciotest/internal/color"
)

// ErrIoWrite is returned when an error occurs while writing to the output.
var ErrIoWrite = errors.New("error when writing to output")

// TimeFormat is the format used for timestamps in log messages.
const TimeFormat = "[15:04:05.000]"

// ConsoleHandler is a slog handler that formats log messages for a terminal:
// a dim timestamp, a level colored by severity, the message, then any
// attributes as key=value pairs.
type ConsoleHandler struct {
	opts   *slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	writer io.Writer
	m      *sync.Mutex
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// NewConsoleHandler creates a new ConsoleHandler writing to w.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &ConsoleHandler{
		opts:   opts,
		writer: w,
		m:      &sync.Mutex{},
	}
}

// Enabled checks if the handler is enabled for the given level.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

// WithAttrs creates a new handler with the given attributes.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	nh.attrs = append(nh.attrs, attrs...)

	return nh
}

// WithGroup creates a new handler with the given group name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	nh := h.clone()
	nh.groups = append(nh.groups, name)

	return nh
}

// Handle implements the slog.Handler interface for ConsoleHandler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch {
	case r.Level <= slog.LevelDebug:
		level = color.Colorize(level, color.FgWhite)
	case r.Level <= slog.LevelInfo:
		level = color.Colorize(level, color.FgCyan)
	case r.Level < slog.LevelError:
		level = color.Colorize(level, color.FgYellow)
	default:
		level = color.Colorize(level, color.FgRed)
	}

	out := strings.Builder{}
	out.WriteString(color.Colorize(r.Time.Format(TimeFormat), color.FgWhite))
	out.WriteString(" ")
	out.WriteString(level)
	out.WriteString(" ")
	out.WriteString(color.Colorize(r.Message, color.FgHiWhite))

	for _, a := range h.attrs {
		writeAttr(&out, h.groups, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&out, h.groups, a)
		return true
	})

	out.WriteString("\n")

	h.m.Lock()
	defer h.m.Unlock()

	if _, err := io.WriteString(h.writer, out.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		opts:   h.opts,
		attrs:  append([]slog.Attr{}, h.attrs...),
		groups: append([]string{}, h.groups...),
		writer: h.writer,
		m:      h.m,
	}
}

func writeAttr(out *strings.Builder, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	out.WriteString(" ")
	out.WriteString(color.Colorize(fmt.Sprintf("%s=%v", key, a.Value.Any()), color.FgHiBlack))
}
