// Package counters implements a lock-free, fixed-capacity registry of named
// 64-bit counters backed by two externally supplied, memory-mappable byte
// regions: a metadata region and a values region.
//
// A single writer process allocates and frees counter IDs and mutates counter
// values; any number of reader processes can enumerate metadata and read
// values concurrently by mapping the same two regions read-only, with no
// locking and no coordination with the writer.
//
// Example usage:
//
//	layout, _ := counters.NewLayout(counters.LayoutOptions{
//		MetadataLen: len(metaRegion),
//		ValuesLen:   len(valuesRegion),
//		KeyLen:      16,
//		LabelLen:    64,
//	})
//	mgr, _ := counters.NewManager(metaRegion, valuesRegion, layout, clock, 0)
//	id, err := mgr.Allocate(333, []byte("stream-7"), "bytes-sent")
//	counters.SetRelease(mgr.Addr(id), 0)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

const (
	// Version of the counters registry module.
	Version = "v0.1.0-dev"

	// DefaultKeyLen is the default width of the metadata key area, in bytes.
	DefaultKeyLen = 16

	// DefaultLabelLen is the default max length of the label area, in bytes.
	DefaultLabelLen = 64

	// CacheLineSize is the assumed cache line width used to pad the value
	// slot and bound the metadata slot's false-sharing window.
	CacheLineSize = 64
)
