// atomic.go: cache-line padded atomic int64
//
// Ported from the teacher's internal/zephyroslite/atomic.go: the padding
// scheme is architecture-agnostic and directly reusable for the new
// SPSC ring's head/tail indices (spec §4.1: "head and tail live on
// separate cache lines").
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import "sync/atomic"

// PaddedInt64 is an int64 padded to occupy its own cache lines, avoiding
// false sharing when two such values (e.g. a ring's head and tail) are
// accessed by different threads.
type PaddedInt64 struct {
	_   [64]byte
	val int64
	_   [64]byte
}

// Load atomically reads the value (acquire semantics via sync/atomic).
func (a *PaddedInt64) Load() int64 {
	return atomic.LoadInt64(&a.val)
}

// Store atomically writes the value (release semantics via sync/atomic).
func (a *PaddedInt64) Store(val int64) {
	atomic.StoreInt64(&a.val, val)
}

// Add atomically adds delta and returns the new value.
func (a *PaddedInt64) Add(delta int64) int64 {
	return atomic.AddInt64(&a.val, delta)
}

// CompareAndSwap performs an atomic compare-and-swap.
func (a *PaddedInt64) CompareAndSwap(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&a.val, old, new)
}
