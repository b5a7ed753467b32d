// reader.go: wait-free metadata iteration
//
// ForeachMetadata never allocates, never blocks, and never takes a lock: it
// is safe to call from as many reader goroutines/processes as desired,
// concurrently with a single writer calling Manager.Allocate/Free against
// the same regions.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// ForeachMetadata visits every ALLOCATED slot in metadata, in ascending id
// order, exactly once. Slots observed as FREE or RECLAIMED at the moment of
// the visit are skipped without waiting. A slot that transitions between
// states while ForeachMetadata is running may or may not be visited,
// depending on the interleaving, but the call itself always terminates and
// never blocks on the writer.
//
// metadata must have a length that is an exact multiple of
// layout.MetaRecordSize(); passing the same layout used to construct the
// Manager that owns metadata guarantees this.
func ForeachMetadata(metadata []byte, layout Layout, v Visitor) {
	capacity := layout.Capacity()
	keyLen := layout.KeyLen()
	labelLenOff := layout.labelLenOffset()
	labelOff := layout.labelOffset()

	for i := 0; i < capacity; i++ {
		base := layout.metadataOffset(i)

		statePtr := (*int32)(unsafe.Pointer(&metadata[base+metaStateOffset]))
		if atomic.LoadInt32(statePtr) != StateAllocated {
			continue
		}

		// Everything below is a plain read: it happens-after the acquire
		// load above, which is synchronized-after the writer's release
		// store in Manager.Allocate, so these bytes are guaranteed visible
		// and are never mutated again while the slot stays ALLOCATED.
		typeID := int32(binary.LittleEndian.Uint32(metadata[base+metaTypeIDOffset : base+metaTypeIDOffset+4]))

		keyBase := base + metaKeyOffset
		key := metadata[keyBase : keyBase+keyLen]

		// The label aliases the live region rather than copying it, so the
		// scan allocates nothing; see Visitor for the retention rule.
		labelLen := int(binary.LittleEndian.Uint32(metadata[base+labelLenOff : base+labelLenOff+4]))
		var label string
		if labelLen > 0 {
			label = unsafe.String(&metadata[base+labelOff], labelLen)
		}

		v.Visit(int32(i), typeID, key, label)
	}
}
