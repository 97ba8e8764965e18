// Copyright (c) ciotools 2026. All rights reserved.
// SPDX-License-Identifier: MIT

package toolrun

import (
	"bytes"
	"io"
)

// boundedTee reads from a pipe while the child process runs, mirroring every
// byte to mirror and keeping at most maxBytes in memory. Reading concurrently
// with the child keeps the pipe drained so a chatty tool never blocks on a
// full pipe buffer.
type boundedTee struct {
	reader   io.ReadCloser
	mirror   io.Writer
	maxBytes int

	buf      bytes.Buffer
	overflow bool
	done     chan error
}

func newBoundedTee(r io.ReadCloser, mirror io.Writer, maxBytes int) *boundedTee {
	return &boundedTee{
		reader:   r,
		mirror:   mirror,
		maxBytes: maxBytes,
		done:     make(chan error, 1),
	}
}

// drain consumes the pipe until EOF. Run it in its own goroutine.
func (t *boundedTee) drain() {
	chunk := make([]byte, 32*1024)

	for {
		n, err := t.reader.Read(chunk)
		if n > 0 {
			if t.mirror != nil {
				_, _ = t.mirror.Write(chunk[:n])
			}

			if room := t.maxBytes - t.buf.Len(); room > 0 {
				if n > room {
					t.overflow = true
					n = room
				}

				t.buf.Write(chunk[:n])
			} else {
				t.overflow = true
			}
		}

		if err != nil {
			_ = t.reader.Close()

			if err == io.EOF {
				t.done <- nil
			} else {
				t.done <- err
			}

			return
		}
	}
}

// wait blocks until drain has seen EOF and returns the captured output.
func (t *boundedTee) wait() ([]byte, error) {
	err := <-t.done
	if err != nil {
		return t.buf.Bytes(), err
	}

	if t.overflow {
		return t.buf.Bytes(), ErrBufferOverflow
	}

	return t.buf.Bytes(), nil
}
