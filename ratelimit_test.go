// ratelimit_test.go: tests for backend loop pacing
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"testing"
	"time"
)

func TestLoopRateLimiterSleepsApproximatelyOnePeriod(t *testing.T) {
	period := 20 * time.Millisecond
	limiter := NewLoopRateLimiter(period)

	start := time.Now()
	limiter.Sleep()
	elapsed := time.Since(start)

	if elapsed < period/2 {
		t.Errorf("Sleep returned too early: elapsed=%v, want >= %v", elapsed, period/2)
	}
}

func TestLoopRateLimiterResetsAfterOverrun(t *testing.T) {
	limiter := NewLoopRateLimiter(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond) // overrun the deadline

	start := time.Now()
	limiter.Sleep()
	elapsed := time.Since(start)

	if elapsed > 5*time.Millisecond {
		t.Errorf("expected an overrun to reset the deadline rather than sleep a backlog, elapsed=%v", elapsed)
	}
}
