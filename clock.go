// clock.go: cached clock for cooldown deadline comparisons
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	"sync/atomic"

	timecache "github.com/agilira/go-timecache"
)

// Clock is a coarse time source sampled by the allocator without syscalls on
// the hot path. Implementations are never advanced by readers; only the
// single writer's duty cycle (or a test) advances the clock.
type Clock interface {
	// NowMillis returns the current time in milliseconds, as understood by
	// this clock. Two calls in quick succession may return the same value;
	// the freshness bound is whatever cadence the owner chooses.
	NowMillis() int64
}

// systemClock samples github.com/agilira/go-timecache, which keeps a
// background-refreshed timestamp so reads never touch the OS clock.
type systemClock struct{}

// NewSystemClock returns a Clock backed by go-timecache's cached
// nanosecond timestamp, truncated to milliseconds.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) NowMillis() int64 {
	return timecache.CachedTimeNano() / 1_000_000
}

// ManualClock is a test double for Clock. It is safe for concurrent use: a
// writer-side test thread can advance it while allocator goroutines sample
// it, matching production where the clock is written by one agent and read
// without locking.
type ManualClock struct {
	millis atomic.Int64
}

// NewManualClock returns a ManualClock initialized to startMillis.
func NewManualClock(startMillis int64) *ManualClock {
	c := &ManualClock{}
	c.millis.Store(startMillis)
	return c
}

// NowMillis implements Clock.
func (c *ManualClock) NowMillis() int64 {
	return c.millis.Load()
}

// Set advances (or rewinds) the manual clock to millis.
func (c *ManualClock) Set(millis int64) {
	c.millis.Store(millis)
}

// Advance moves the manual clock forward by delta milliseconds and returns
// the new value.
func (c *ManualClock) Advance(delta int64) int64 {
	return c.millis.Add(delta)
}
