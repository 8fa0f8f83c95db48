// threadcontext.go: per-thread producer handle
//
// Go has no thread-local storage and no thread-exit destructor hook, so
// the lazy-creation-on-first-log-call model of spec §4.5 is expressed
// here as an explicit-lifetime handle: a goroutine that intends to log
// calls Acquire once, keeps the returned *Writer for its own lifetime,
// and calls Close before it exits. Close sets the underlying ring's
// closed flag so the registry can reap it once drained; there is no
// implicit finalizer, matching the REDESIGN FLAGS guidance to use "a
// dedicated teardown token" in place of a thread-local destructor.
//
// Grounded on original_source's logger/detail/LoggerContext.h (lazy
// producer acquisition, captured thread identity) and context.go's
// acquire/release shape from the teacher repo, generalized from a
// context.Context field extractor to a producer-handle lifecycle.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"sync"

	"github.com/ksergey/rocket/internal/ring"
)

// Writer is a per-thread (per-goroutine, by convention) handle onto a
// producer queue. It is not safe for concurrent use by more than one
// goroutine: exactly one goroutine may call Prepare/Commit (directly or
// through Log) on a given Writer,
// matching the SPSC contract of the underlying ring.
type Writer struct {
	queue    *ring.Ring
	threadID uint64

	closeOnce sync.Once
}

// Acquire creates a new Writer backed by a freshly registered producer
// queue. Callers obtain one Writer per logging goroutine and reuse it
// for every subsequent log call from that goroutine.
func Acquire() (*Writer, error) {
	q, err := defaultRegistry.CreateProducer()
	if err != nil {
		return nil, err
	}
	return &Writer{
		queue:    q,
		threadID: nextThreadID(),
	}, nil
}

// ThreadID returns the identity captured at Acquire time and stamped on
// every record written through this Writer.
func (w *Writer) ThreadID() uint64 {
	return w.threadID
}

// Close marks the underlying queue closed. Already-enqueued records are
// still drained by the backend; the registry reaps the queue once it is
// both closed and empty. Close is idempotent and safe to defer.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		w.queue.Close()
	})
}

// Prepare reserves n bytes in the underlying ring for a log record.
func (w *Writer) Prepare(n int) ([]byte, bool) {
	return w.queue.Prepare(n)
}

// Commit publishes the entry reserved by the last Prepare call.
func (w *Writer) Commit() {
	w.queue.Commit()
}

var threadIDCounter struct {
	mu   sync.Mutex
	next uint64
}

// nextThreadID hands out a small monotonically increasing identity for
// each Writer. Go exposes no public goroutine ID, so log output
// distinguishes producers by acquisition order rather than a runtime
// thread number.
func nextThreadID() uint64 {
	threadIDCounter.mu.Lock()
	defer threadIDCounter.mu.Unlock()
	threadIDCounter.next++
	return threadIDCounter.next
}
