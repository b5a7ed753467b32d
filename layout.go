// layout.go: bit-exact placement of metadata records and value slots
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

// Metadata slot byte layout (little-endian):
//
//	state:i32        @ 0
//	type_id:i32      @ 4
//	deadline_ms:i64  @ 8
//	key_bytes        @ 16 .. 16+keyLen
//	label_len:i32    @ recordSize-(labelLen+4)
//	label_bytes      @ recordSize-labelLen
const (
	metaStateOffset    = 0
	metaTypeIDOffset   = 4
	metaDeadlineOffset = 8
	metaKeyOffset      = 16
)

// metaFixedHeaderSize is the size, in bytes, of the fixed header that
// precedes the key area: state (4) + type_id (4) + deadline_ms (8) = 16.
const metaFixedHeaderSize = 16

// Layout describes the bit-exact placement of metadata records in the
// metadata region and value slots in the values region, and the capacity
// implied by both.
type Layout struct {
	metaRecordSize  int
	valueRecordSize int
	keyLen          int
	labelLen        int
	capacity        int
}

// LayoutOptions configures NewLayout.
type LayoutOptions struct {
	// MetadataLen is the length, in bytes, of the caller-supplied metadata
	// region.
	MetadataLen int
	// ValuesLen is the length, in bytes, of the caller-supplied values
	// region.
	ValuesLen int
	// KeyLen is the fixed width, in bytes, of the opaque key area embedded
	// in each metadata record.
	KeyLen int
	// LabelLen is the maximum length, in bytes, of the label a counter may
	// carry (the label area is length-prefixed, so actual labels may be
	// shorter).
	LabelLen int
}

// NewLayout computes the metadata/value record sizes implied by opts and
// validates that both regions are an exact positive multiple of their
// record size, and that the two implied capacities agree.
func NewLayout(opts LayoutOptions) (Layout, error) {
	if opts.KeyLen < 0 || opts.LabelLen < 0 {
		return Layout{}, NewErrInvalidLayout("key length and label length must be non-negative")
	}

	metaRecordSize := metaFixedHeaderSize + opts.KeyLen + 4 + opts.LabelLen
	if metaFixedHeaderSize+opts.KeyLen > 2*CacheLineSize {
		return Layout{}, NewErrInvalidLayout("key header and key area must fit within two cache lines")
	}

	valueRecordSize := CacheLineSize
	if valueRecordSize < 8 {
		valueRecordSize = 8
	}

	if opts.MetadataLen <= 0 || opts.ValuesLen <= 0 {
		return Layout{}, NewErrInvalidLayout("metadata and values regions must be non-empty")
	}
	if opts.MetadataLen%metaRecordSize != 0 {
		return Layout{}, NewErrMisalignedRegion("metadata", opts.MetadataLen, metaRecordSize)
	}
	if opts.ValuesLen%valueRecordSize != 0 {
		return Layout{}, NewErrMisalignedRegion("values", opts.ValuesLen, valueRecordSize)
	}

	metaCapacity := opts.MetadataLen / metaRecordSize
	valueCapacity := opts.ValuesLen / valueRecordSize
	if metaCapacity != valueCapacity {
		return Layout{}, NewErrCapacityMismatch(metaCapacity, valueCapacity)
	}

	return Layout{
		metaRecordSize:  metaRecordSize,
		valueRecordSize: valueRecordSize,
		keyLen:          opts.KeyLen,
		labelLen:        opts.LabelLen,
		capacity:        metaCapacity,
	}, nil
}

// Capacity returns the number of counter slots implied by the regions this
// layout was constructed from.
func (l Layout) Capacity() int { return l.capacity }

// MetaRecordSize returns R_m, the size in bytes of one metadata record.
func (l Layout) MetaRecordSize() int { return l.metaRecordSize }

// ValueRecordSize returns R_v, the size in bytes of one value slot.
func (l Layout) ValueRecordSize() int { return l.valueRecordSize }

// KeyLen returns the fixed width of the key area.
func (l Layout) KeyLen() int { return l.keyLen }

// LabelLen returns the maximum label length.
func (l Layout) LabelLen() int { return l.labelLen }

// metadataOffset returns the byte offset of slot i's metadata record within
// the metadata region.
func (l Layout) metadataOffset(i int) int { return i * l.metaRecordSize }

// valueOffset returns the byte offset of slot i's value slot within the
// values region.
func (l Layout) valueOffset(i int) int { return i * l.valueRecordSize }

// labelLenOffset returns the offset of the label's length prefix within a
// metadata record.
func (l Layout) labelLenOffset() int { return l.metaRecordSize - (l.labelLen + 4) }

// labelOffset returns the offset of the label bytes within a metadata
// record.
func (l Layout) labelOffset() int { return l.metaRecordSize - l.labelLen }
