// Package rocket is an asynchronous, low-latency structured logging
// core built around per-goroutine SPSC ring buffers and a single
// backend drain thread.
//
// A call to Log never formats a message: it encodes the call-site
// metadata and the raw argument bytes into the calling goroutine's own
// ring buffer and returns. All string building - VFormat substitution,
// pattern rendering, sink I/O - happens later, off the hot path, on
// the backend goroutine started with StartBackend.
//
// # Writers
//
// Each goroutine that logs acquires its own Writer and holds it for as
// long as it intends to log; Go has neither thread-local storage nor a
// thread-exit hook, so the lifetime that the original system pinned to
// an OS thread is instead an explicit handle here:
//
//	w, err := rocket.Acquire()
//	if err != nil {
//		// the producer queue could not be created
//	}
//	defer w.Close()
//
// # Backend
//
//	sink := sinks.NewConsole()
//	if err := rocket.StartBackend(sink, rocket.BackendOptions{}); err != nil {
//		// ...
//	}
//	defer rocket.StopBackend()
//
// StopBackend drains every registered producer to exhaustion before
// returning, so records enqueued just before shutdown are not lost.
//
// # Sinks
//
// Sink is the pluggable output contract; sinks.Console and
// sinks.DailyFile are the two provided implementations, and any type
// satisfying Sink can be passed to StartBackend.
//
// # Levels
//
// The process-wide level gate is checked on the producer side, before
// anything is enqueued, via SetLogLevel / SetLogLevelString.
package rocket
