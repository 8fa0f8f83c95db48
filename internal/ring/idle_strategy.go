// idle_strategy.go: spin/backoff strategy for the RETRY enqueue policy
//
// Trimmed from the teacher's internal/zephyroslite/idle_strategy.go down
// to the one strategy methods.go's RETRY loop actually uses. A
// RETRY-policy producer has no producer-side "wake me up" signal to
// offer a channel-based strategy (there is exactly one producer and it
// IS the one retrying), so the teacher's ChannelIdleStrategy and
// ProgressiveIdleStrategy are dropped rather than ported unused; the
// teacher's SpinningIdleStrategy and SleepingIdleStrategy variants are
// dropped too, for the same reason: nothing in rocket's pipeline needs
// a pure busy-spin or a spin-then-sleep retry, only yield-then-retry.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import "runtime"

// IdleStrategy controls how a spinning retry loop backs off while
// waiting for ring space to free up.
type IdleStrategy interface {
	// Idle is called once per failed attempt.
	Idle()
	// Reset is called once the attempt succeeds.
	Reset()
}

// YieldingIdleStrategy yields to the Go scheduler after a configurable
// number of spins.
type YieldingIdleStrategy struct {
	maxSpins int
	spins    int
}

// NewYieldingIdleStrategy creates a strategy that calls runtime.Gosched()
// every maxSpins idle calls.
func NewYieldingIdleStrategy(maxSpins int) *YieldingIdleStrategy {
	if maxSpins <= 0 {
		maxSpins = 1000
	}
	return &YieldingIdleStrategy{maxSpins: maxSpins}
}

func (s *YieldingIdleStrategy) Idle() {
	s.spins++
	if s.spins >= s.maxSpins {
		runtime.Gosched()
		s.spins = 0
	}
}

func (s *YieldingIdleStrategy) Reset() {
	s.spins = 0
}
