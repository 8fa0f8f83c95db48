// methods.go: package-level frontend API
//
// This is the thin hot-path surface callers actually use: shouldLog,
// Log, and the handful of control operations (level, capacity hint,
// backend lifecycle). Grounded on original_source's logger/Logger.h
// free functions (log, setLogLevel, startBackend, stopBackend) and the
// teacher's methods.go for per-goroutine Writer plumbing in place of
// the teacher's single *Logger receiver.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"sync/atomic"

	"github.com/ksergey/rocket/internal/ring"
)

var currentLevel = NewAtomicLevel(Notice)

// droppedCount tallies records discarded under the DROP enqueue policy
// because the producer's ring had no free space. Grounded on the
// teacher's stats.IncrementDropped/GetDropped.
var droppedCount int64

// DroppedCount returns the number of records dropped so far under the
// DROP enqueue policy.
func DroppedCount() int64 {
	return atomic.LoadInt64(&droppedCount)
}

// ResetDroppedCount zeroes the dropped-record counter.
func ResetDroppedCount() {
	atomic.StoreInt64(&droppedCount, 0)
}

// shouldLog reports whether a record at level should be emitted given
// the current global level.
func shouldLog(level Level) bool {
	return currentLevel.Enabled(level)
}

// SetLogLevel sets the process-wide minimum log level.
func SetLogLevel(level Level) {
	currentLevel.SetLevel(level)
}

// SetLogLevelString parses s and sets the process-wide minimum log
// level, returning an error for an unrecognised string.
func SetLogLevelString(s string) error {
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}
	currentLevel.SetLevel(level)
	return nil
}

// CurrentLogLevel returns the process-wide minimum log level.
func CurrentLogLevel() Level {
	return currentLevel.Level()
}

// SetQueueCapacityHint sets the byte capacity used for producer queues
// created after this call. It does not affect already-created queues.
func SetQueueCapacityHint(n int) error {
	if err := defaultRegistry.SetCapacityHint(n); err != nil {
		return WrapLoggerError(err, ErrCodeInvalidCapacityHint, "invalid queue capacity hint")
	}
	return nil
}

// StartBackend starts the backend drain thread against sink. It blocks
// until the backend has observed itself running.
func StartBackend(sink Sink, opts BackendOptions) error {
	installFatalHandler()
	return defaultBackend.Start(sink, opts)
}

// StopBackend stops the backend drain thread, blocking until a final
// drain pass over every consumer has yielded zero records.
//
// Go has no atexit hook to run this automatically on normal process
// exit: os.Exit skips deferred calls, and runtime.SetFinalizer only
// fires on garbage collection. Callers must defer StopBackend() in
// main to guarantee pending records are flushed before the process
// dies; only a fatal signal (see installFatalHandler) triggers an
// automatic last-gasp drain.
func StopBackend() {
	defaultBackend.Stop()
}

// IsBackendReady reports whether the backend is currently running.
func IsBackendReady() bool {
	return defaultBackend.IsReady()
}

// Log enqueues a log record for the given call-site metadata and
// positional arguments. It is the hot path: no formatting happens
// here, only encoding into the calling goroutine's ring buffer.
//
// Callers are expected to go through a code-generated or hand-written
// wrapper that builds metadata once per call site (see RecordMetadata);
// Log itself does no caching of its own.
func Log(w *Writer, metadata *RecordMetadata, encode func(dst []byte) int, argsSize int) {
	if !shouldLog(metadata.Level) {
		return
	}

	total := EncodedRecordSize(argsSize)
	buf, ok := w.Prepare(total)
	if !ok {
		if !metadata.Retry() {
			atomic.AddInt64(&droppedCount, 1)
			return
		}
		// Mirrors original_source's retry loop (yield, then prepare again):
		// a RETRY call site has no one else to hand the CPU to but the Go
		// scheduler, so yield on every failed attempt rather than busy-spin.
		idle := ring.NewYieldingIdleStrategy(1)
		for {
			idle.Idle()
			buf, ok = w.Prepare(total)
			if ok {
				break
			}
		}
	}

	header := LogRecordHeader{
		Timestamp: globalClock.Now(),
		ThreadID:  w.ThreadID(),
	}
	n := EncodeRecordPrefix(buf, header, metadata)
	encode(buf[n:])
	w.Commit()
}

var globalClock Clock = NewWallClock()
