// registry.go: process-wide registry of producer queues
//
// Grounded on original_source's logger/detail/LoggerQueueManager.h/.cpp:
// createProducer enqueues the new consumer half into a spinlock-guarded
// pending list and arms a rebuild flag; forEachConsumer (backend-only)
// merges pending into active and reaps closed+empty consumers before
// iterating. The active list is touched solely by the backend goroutine
// and needs no synchronization of its own.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"sync/atomic"

	"github.com/ksergey/rocket/internal/ring"
)

// DefaultCapacityHint is the default per-producer ring capacity in
// bytes, matching the original's kDefaultCapacityHint.
const DefaultCapacityHint = 2 * 1024 * 1024

// ErrInvalidCapacityHint is returned by SetCapacityHint for a
// non-positive value.
var ErrInvalidCapacityHint = errors.New("registry: capacity hint must be positive")

// Registry tracks every producer ring created via CreateProducer and
// hands them to the backend for draining.
type Registry struct {
	capacityHint atomic.Int64

	pendingLock SpinLock
	pending     []*ring.Ring

	// active is owned exclusively by the backend goroutine calling
	// ForEachConsumer; no synchronization needed.
	active []*ring.Ring

	rebuild atomic.Bool
}

// New creates a Registry with the default capacity hint.
func New() *Registry {
	r := &Registry{}
	r.capacityHint.Store(DefaultCapacityHint)
	return r
}

// SetCapacityHint records the default capacity for subsequently-created
// producers. Zero or negative values are rejected and the previous hint
// is retained.
func (r *Registry) SetCapacityHint(n int) error {
	if n <= 0 {
		return ErrInvalidCapacityHint
	}
	r.capacityHint.Store(int64(n))
	return nil
}

// CapacityHint returns the current default capacity hint.
func (r *Registry) CapacityHint() int {
	return int(r.capacityHint.Load())
}

// CreateProducer allocates a new ring sized by the current capacity
// hint, registers its consumer half in the pending-additions list, arms
// the rebuild flag, and returns the ring (whose producer-facing methods
// the caller alone may use).
func (r *Registry) CreateProducer() (*ring.Ring, error) {
	capacity := nextPowerOfTwo(r.CapacityHint())
	q, err := ring.New(capacity)
	if err != nil {
		return nil, err
	}

	r.pendingLock.Lock()
	r.pending = append(r.pending, q)
	r.pendingLock.Unlock()

	r.rebuild.Store(true)
	return q, nil
}

// ForEachConsumer is called only by the backend goroutine. If the
// rebuild flag is set, it merges pending additions into the active list
// and reaps consumers that are both closed and empty, clearing the flag;
// it then invokes f on every remaining active consumer. If f reports
// that a consumer is closed, the flag is re-armed so the next call reaps
// it.
func (r *Registry) ForEachConsumer(f func(q *ring.Ring)) {
	if r.rebuild.CompareAndSwap(true, false) {
		r.mergePending()
		r.reapClosed()
	}

	anyClosed := false
	for _, q := range r.active {
		f(q)
		if q.IsClosed() {
			anyClosed = true
		}
	}
	if anyClosed {
		r.rebuild.Store(true)
	}
}

// Len reports the number of consumers currently in the active list
// (test/observability helper).
func (r *Registry) Len() int {
	return len(r.active)
}

func (r *Registry) mergePending() {
	r.pendingLock.Lock()
	pending := r.pending
	r.pending = nil
	r.pendingLock.Unlock()

	r.active = append(r.active, pending...)
}

func (r *Registry) reapClosed() {
	kept := r.active[:0]
	for _, q := range r.active {
		if q.IsClosed() && q.IsEmpty() {
			continue
		}
		kept = append(kept, q)
	}
	r.active = kept
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
