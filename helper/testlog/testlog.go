// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package testlog creates loggers backed by testing.T to ease logging in
// tests.
package testlog

import (
	"bytes"
	"io"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
)

// LogPrinter is the methods of testing.T (or testing.B) needed by the test
// logger.
type LogPrinter interface {
	Logf(format string, args ...interface{})
}

// writer implements io.Writer on top of a LogPrinter.
type writer struct {
	t LogPrinter
}

// Write to an underlying LogPrinter. Never returns an error.
func (w *writer) Write(p []byte) (n int, err error) {
	w.t.Logf("%s", bytes.TrimRight(p, "\n"))
	return len(p), nil
}

// NewWriter returns an io.Writer that logs each write through t.
func NewWriter(t LogPrinter) io.Writer {
	return &writer{t}
}

// HCLogger returns a new test hc-logger at trace level.
func HCLogger(t LogPrinter) hclog.Logger {
	opts := &hclog.LoggerOptions{
		Level:  hclog.Trace,
		Output: NewWriter(t),
	}
	return hclog.New(opts)
}

// Buffer is an io.Writer that is safe to read while a logger writes to it.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a logger at the given level whose output is kept in
// the returned Buffer, for tests that assert on diagnostics.
func CaptureLogger(level hclog.Level) (hclog.Logger, *Buffer) {
	buf := new(Buffer)
	logger := hclog.New(&hclog.LoggerOptions{
		Level:  level,
		Output: buf,
	})
	return logger, buf
}
