// clock.go: Timestamp subsystem — wall clock and TSC clock with calibration
//
// Two interchangeable clocks, selected by which type the caller
// instantiates (spec §4.7's "compile-time selector" becomes, in Go, the
// concrete Clock implementation assigned to globalClock in methods.go,
// a WallClock by default).
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package rocket

import (
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	timecache "github.com/agilira/go-timecache"
)

// ClockTimestamp is a {sec, nsec} pair, the wire representation of a
// point in time inside a record.
type ClockTimestamp struct {
	Sec  int64
	Nsec int64
}

// ToTime converts the timestamp to a time.Time in the local zone.
func (t ClockTimestamp) ToTime() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// Clock produces ClockTimestamp values for new records. Now must be
// total and allocation-free.
type Clock interface {
	Now() ClockTimestamp
}

// WallClock reads the OS realtime clock. No conversion is needed since
// the source is already wall time.
//
// Now is served by a cached millisecond-resolution reading via
// go-timecache, avoiding a syscall per record; it calls time.Now()
// directly only when the cache could not be started. There is no
// separate full-precision read.
type WallClock struct {
	cache *timecache.TimeCache
}

// NewWallClock starts a WallClock backed by a millisecond-resolution
// cached clock.
func NewWallClock() *WallClock {
	tc, err := timecache.NewWithResolution(time.Millisecond)
	if err != nil {
		// Millisecond resolution is always accepted by go-timecache;
		// this path exists only for forward compatibility with future
		// resolution validation.
		return &WallClock{}
	}
	return &WallClock{cache: tc}
}

// Now returns the current cached time, falling back to time.Now if the
// cache was never started.
func (c *WallClock) Now() ClockTimestamp {
	t := time.Now()
	if c.cache != nil {
		t = c.cache.CachedTime()
	}
	return ClockTimestamp{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Stop releases the background cache-refresh goroutine.
func (c *WallClock) Stop() {
	if c.cache != nil {
		c.cache.Stop()
	}
}

// tscCalibrationTrials is the number of spin trials TicksHelper runs to
// establish nanoseconds-per-tick, matching TicksHelper.h.
const tscCalibrationTrials = 13

// tscTrialDuration is the length of each calibration trial.
const tscTrialDuration = 10 * time.Millisecond

// tscTightLagThreshold and tscRelaxedLagThreshold bound how much wall-clock
// drift a sync attempt tolerates between reading tsc_start and tsc_stop.
const (
	tscTightLagThreshold   = 2500 * time.Nanosecond  // 2.5us
	tscRelaxedLagThreshold = 10000 * time.Nanosecond // 10us
)

// tscSyncRetries is the number of tight-threshold attempts before falling
// back to the relaxed threshold.
const tscSyncRetries = 4

// TSCClock converts a fast, monotonically increasing tick counter to wall
// time via a periodically-resynced linear model, implementing the
// TicksHelper algorithm from the original source.
//
// Go has no portable, safe way to read the hardware TSC without either
// CGo or hand-written per-architecture assembly; rather than fabricate
// either, TickSource is a pluggable function defaulting to a monotonic
// nanosecond counter. The calibration/resync engine below — the actual
// engineering content of spec §4.7 — is implemented faithfully regardless
// of what TickSource returns.
type TSCClock struct {
	TickSource func() int64

	nsPerTick atomic.Uint64 // fixed-point: nanoseconds per tick, x1<<32

	wallBaseNsec  atomic.Int64
	tscBase       atomic.Int64
	resyncTicks   atomic.Int64
	resyncEvery   atomic.Int64 // in ticks; doubles on repeated sync failure
	calibrated    atomic.Bool
}

// tickEpoch anchors defaultTickSource to Go's monotonic clock reading.
var tickEpoch = time.Now()

// defaultTickSource returns a monotonically increasing nanosecond count.
func defaultTickSource() int64 {
	return int64(time.Since(tickEpoch))
}

// NewTSCClock creates and calibrates a TSCClock.
func NewTSCClock() *TSCClock {
	c := &TSCClock{TickSource: defaultTickSource}
	c.resyncEvery.Store(int64(time.Second))
	c.calibrate()
	c.sync()
	return c
}

// calibrate computes nanoseconds-per-tick as the median of
// tscCalibrationTrials spin trials, each correlating a fixed wall-clock
// duration against elapsed ticks.
func (c *TSCClock) calibrate() {
	rates := make([]float64, 0, tscCalibrationTrials)
	for i := 0; i < tscCalibrationTrials; i++ {
		wallStart := time.Now()
		tickStart := c.TickSource()
		for time.Since(wallStart) < tscTrialDuration {
			// spin
		}
		wallElapsed := time.Since(wallStart)
		tickElapsed := c.TickSource() - tickStart
		if tickElapsed <= 0 {
			continue
		}
		rates = append(rates, float64(wallElapsed)/float64(tickElapsed))
	}
	if len(rates) == 0 {
		// TickSource does not advance (e.g. a test stub); treat one
		// tick as one nanosecond so the clock remains usable.
		c.nsPerTick.Store(1 << 32)
		return
	}
	sort.Float64s(rates)
	median := rates[len(rates)/2]
	c.nsPerTick.Store(uint64(median * float64(uint64(1)<<32)))
}

// sync establishes a fresh (wallBase, tscBase) anchor pair, retrying up
// to tscSyncRetries times with the tight lag threshold and once more with
// the relaxed threshold. On total failure it reports to stderr via the
// TSCCalibrationFailure error kind, doubles the resync interval, and
// keeps the previous anchor, so the clock remains usable with stale
// calibration.
func (c *TSCClock) sync() {
	attempt := func(lag time.Duration) bool {
		tscStart := c.TickSource()
		wall := time.Now()
		tscStop := c.TickSource()
		if time.Duration(tscStop-tscStart) <= lag || tscStop == tscStart {
			c.wallBaseNsec.Store(wall.UnixNano())
			c.tscBase.Store((tscStart + tscStop) / 2)
			c.calibrated.Store(true)
			return true
		}
		return false
	}

	for i := 0; i < tscSyncRetries; i++ {
		if attempt(tscTightLagThreshold) {
			return
		}
	}
	if attempt(tscRelaxedLagThreshold) {
		return
	}

	c.resyncEvery.Store(c.resyncEvery.Load() * 2)
	handleError(NewLoggerError(ErrCodeTSCCalibration, "TSC resync failed, continuing with stale calibration"))
	fmt.Fprintln(os.Stderr, "[ROCKET] TSC resync failed, retaining last calibration")
}

// Now returns the current wall time derived from the tick counter,
// triggering a resync first if the elapsed ticks since the last anchor
// exceed the current resync interval.
func (c *TSCClock) Now() ClockTimestamp {
	tick := c.TickSource()
	if tick-c.tscBase.Load() > c.resyncEvery.Load() {
		c.sync()
	}
	nsec := c.timeSinceEpoch(tick)
	return ClockTimestamp{Sec: nsec / int64(time.Second), Nsec: nsec % int64(time.Second)}
}

// timeSinceEpoch implements wallBase + (tsc - tscBase) * nsPerTick, with
// nsPerTick stored as a Q32 fixed-point value to avoid floating point on
// the hot path.
func (c *TSCClock) timeSinceEpoch(tsc int64) int64 {
	delta := tsc - c.tscBase.Load()
	scaled := (delta * int64(c.nsPerTick.Load())) >> 32
	return c.wallBaseNsec.Load() + scaled
}
