// spinlock.go: test-and-test-and-set spinlock
//
// Grounded on original_source's SpinLock.h. Used to guard the registry's
// pending-additions list only; the active list is touched exclusively by
// the backend thread and needs no lock at all.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a minimal mutual-exclusion primitive for short critical
// sections (a slice append), preferred here over sync.Mutex to match the
// original's spin-then-yield texture for a lock held for only a handful
// of instructions.
type SpinLock struct {
	locked atomic.Bool
}

// Lock spins until the lock is acquired, yielding to the Go scheduler
// between attempts to avoid starving other goroutines on a busy system.
func (s *SpinLock) Lock() {
	for {
		if !s.locked.Load() && s.locked.CompareAndSwap(false, true) {
			return
		}
		runtime.Gosched()
	}
}

// Unlock releases the lock.
func (s *SpinLock) Unlock() {
	s.locked.Store(false)
}
