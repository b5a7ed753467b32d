// values.go: atomic primitives over value-slot addresses
//
// These helpers operate directly on *int64 addresses returned by
// Manager.Addr. They mirror the plain/acquire/release split balios uses for
// its entry fields (entry.loadKey/storeKey), generalized to a single 64-bit
// counter rather than a key pointer+length pair.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import "sync/atomic"

// GetPlain performs a non-atomic-ordering load. It carries no cross-thread
// ordering guarantee and is intended for single-threaded or externally
// synchronized use (e.g. the allocating writer reading its own counter).
func GetPlain(p *int64) int64 {
	return atomic.LoadInt64(p)
}

// GetAcquire performs an acquire-ordered load. It pairs with any
// release-ordered store (SetRelease, IncrementRelease, GetAndAddRelease,
// ProposeMaxRelease) made by the writer, guaranteeing the reader observes
// that store's value and everything the writer published before it.
func GetAcquire(p *int64) int64 {
	return atomic.LoadInt64(p)
}

// SetRelease performs a release-ordered store of v.
func SetRelease(p *int64, v int64) {
	atomic.StoreInt64(p, v)
}

// IncrementPlain adds 1 to *p with no ordering guarantee beyond the atomicity
// of the add itself, and returns the value prior to the increment.
func IncrementPlain(p *int64) int64 {
	return atomic.AddInt64(p, 1) - 1
}

// IncrementRelease adds 1 to *p with release ordering, publishing the new
// value, and returns the value prior to the increment.
func IncrementRelease(p *int64) int64 {
	return atomic.AddInt64(p, 1) - 1
}

// GetAndAddPlain adds delta (which may be negative) to *p with no ordering
// guarantee, returning the value prior to the addition.
func GetAndAddPlain(p *int64, delta int64) int64 {
	return atomic.AddInt64(p, delta) - delta
}

// GetAndAddRelease adds delta (which may be negative) to *p with release
// ordering, returning the value prior to the addition.
func GetAndAddRelease(p *int64, delta int64) int64 {
	return atomic.AddInt64(p, delta) - delta
}

// ProposeMaxPlain stores v into *p iff v is strictly greater than the
// current value, with no cross-thread ordering guarantee on the store. It
// returns true iff it stored.
//
// Implemented as a CAS retry loop, the same shape OpenTelemetry's metric SDK
// uses for its atomic max aggregator (internal/aggregate/atomic.go), with
// the comparison generalized from "store a new max" to "replace iff
// strictly greater".
func ProposeMaxPlain(p *int64, v int64) bool {
	for {
		cur := atomic.LoadInt64(p)
		if v <= cur {
			return false
		}
		if atomic.CompareAndSwapInt64(p, cur, v) {
			return true
		}
	}
}

// ProposeMaxRelease stores v into *p iff v is strictly greater than the
// current value, publishing the new value with release ordering on success.
// It returns true iff it stored.
func ProposeMaxRelease(p *int64, v int64) bool {
	for {
		cur := atomic.LoadInt64(p)
		if v <= cur {
			return false
		}
		if atomic.CompareAndSwapInt64(p, cur, v) {
			return true
		}
	}
}
