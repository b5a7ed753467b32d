// manager.go: counter id allocation state machine
//
// The manager owns no memory: the metadata and values regions are borrowed
// for the manager's lifetime (spec design note: "manager holds a
// non-owning handle to two byte ranges whose lifetime strictly outlives the
// manager"). Exactly one writer goroutine/process is assumed to call
// Allocate/Free on a given Manager; any number of readers may concurrently
// call ForeachMetadata and the Get*/ProposeMax* value primitives against the
// same regions without coordinating with the writer.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	"container/heap"
	"encoding/binary"
	"sync/atomic"
	"time"
	"unsafe"
)

// Slot states. State is stored as the first 4 bytes of every metadata
// record and observed by readers with acquire ordering.
const (
	StateFree      int32 = 0
	StateAllocated int32 = 1
	StateReclaimed int32 = 2
)

// Manager is the counter id allocator: a lock-free state machine over a
// caller-supplied metadata region and values region. It is safe for one
// writer to call Allocate/Free/Addr/Close; it is safe for any number of
// other goroutines (readers) to call ForeachMetadata and the value
// primitives concurrently with the writer.
type Manager struct {
	metadata []byte
	values   []byte
	layout   Layout
	clock    Clock

	cooldownMs atomic.Int64

	nextNeverUsed int32
	reusable      reusableHeap

	metrics MetricsCollector
	logger  Logger
}

// reusableEntry is a candidate id for reuse: deadlineMs is the cached-clock
// millisecond timestamp at or after which the id becomes eligible again.
// Zero means immediately eligible (the id was freed with cooldown 0).
// Entries skipped by popReusable are re-pushed with their deadline unchanged.
type reusableEntry struct {
	id         int32
	deadlineMs int64
}

// reusableHeap is a min-heap ordered by id, implementing the tie-break
// policy in spec.md 4.3 ("return the lowest such id") directly: the
// allocator always considers candidates in ascending id order.
type reusableHeap []reusableEntry

func (h reusableHeap) Len() int            { return len(h) }
func (h reusableHeap) Less(i, j int) bool  { return h[i].id < h[j].id }
func (h reusableHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *reusableHeap) Push(x interface{}) { *h = append(*h, x.(reusableEntry)) }
func (h *reusableHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NewManager constructs a Manager over metadata and values, whose lengths
// must already be validated against layout (see NewLayout). cooldownMs is
// the minimum duration, in clock milliseconds, before a freed id may be
// reused; 0 means a freed id is immediately reusable.
func NewManager(metadata, values []byte, layout Layout, clock Clock, cooldownMs int64, opts ...ManagerOption) (*Manager, error) {
	if cooldownMs < 0 {
		return nil, NewErrInvalidCooldown(cooldownMs)
	}
	if len(metadata) != layout.MetaRecordSize()*layout.Capacity() {
		return nil, NewErrMisalignedRegion("metadata", len(metadata), layout.MetaRecordSize())
	}
	if len(values) != layout.ValueRecordSize()*layout.Capacity() {
		return nil, NewErrMisalignedRegion("values", len(values), layout.ValueRecordSize())
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	m := &Manager{
		metadata: metadata,
		values:   values,
		layout:   layout,
		clock:    clock,
		metrics:  NoOpMetricsCollector{},
		logger:   NoOpLogger{},
	}
	m.cooldownMs.Store(cooldownMs)
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ManagerOption configures optional Manager collaborators.
type ManagerOption func(*Manager)

// WithMetricsCollector wires an observability collector into the manager.
// A nil collector is ignored (NoOpMetricsCollector remains in effect).
func WithMetricsCollector(mc MetricsCollector) ManagerOption {
	return func(m *Manager) {
		if mc != nil {
			m.metrics = mc
		}
	}
}

// WithLogger wires a structured logger into the manager. A nil logger is
// ignored (NoOpLogger remains in effect).
func WithLogger(l Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Capacity returns the number of counter slots this manager governs.
func (m *Manager) Capacity() int { return m.layout.Capacity() }

// CooldownMs returns the cooldown currently in effect, in clock
// milliseconds. Safe to call concurrently with Allocate/Free/SetCooldownMs.
func (m *Manager) CooldownMs() int64 { return m.cooldownMs.Load() }

// SetCooldownMs atomically replaces the cooldown applied to ids freed after
// this call; it implements CooldownSetter so a HotCooldown can live-update a
// running Manager (see hot-reload.go). Ids already RECLAIMED keep the
// deadline they were freed with: only future Free calls observe the new
// value. A negative cooldownMs is ignored.
func (m *Manager) SetCooldownMs(cooldownMs int64) {
	if cooldownMs < 0 {
		return
	}
	m.cooldownMs.Store(cooldownMs)
}

// Allocate claims a counter id, publishes its metadata, zeros its value
// slot, and returns the id. It returns -1 (with an error satisfying
// IsCapacityExhausted, IsAllocationError as appropriate) when no id is
// reusable, or when key/label exceed the layout's fixed widths.
func (m *Manager) Allocate(typeID int32, key []byte, label string) (int32, error) {
	start := m.clock.NowMillis()

	if len(key) > m.layout.KeyLen() {
		return -1, NewErrKeyTooLong(len(key), m.layout.KeyLen())
	}
	if len(label) > m.layout.LabelLen() {
		return -1, NewErrLabelTooLong(len(label), m.layout.LabelLen())
	}

	id, ok := m.claimID(start)
	if !ok {
		m.metrics.RecordExhaustion()
		m.logger.Warn("counters: capacity exhausted", "capacity", m.layout.Capacity())
		return -1, NewErrCapacityExhausted(m.layout.Capacity())
	}

	// Plain stores: readers only trust these bytes once they observe the
	// state field as ALLOCATED via an acquire load (see ForeachMetadata),
	// which happens-after the release store below.
	m.writeTypeID(id, typeID)
	m.writeDeadline(id, 0)
	m.writeKey(id, key)
	m.writeLabel(id, label)

	// Linearization point: publish the slot with release ordering.
	atomic.StoreInt32(m.stateField(id), StateAllocated)

	// Zero the value slot after publication; the writer is the only party
	// permitted to touch it until the id is freed.
	SetRelease(m.Addr(id), 0)

	m.metrics.RecordAllocate((m.clock.NowMillis() - start) * int64(time.Millisecond))

	return id, nil
}

// claimID pops the highest-priority reusable id (spec.md 4.3 step 1): the
// lowest id among currently-reusable previously-used slots whose cooldown
// deadline has elapsed, or else the next never-used id.
func (m *Manager) claimID(now int64) (int32, bool) {
	if id, ok := m.popReusable(now); ok {
		return id, true
	}
	if int(m.nextNeverUsed) < m.layout.Capacity() {
		id := m.nextNeverUsed
		m.nextNeverUsed++
		return id, true
	}
	return -1, false
}

// popReusable scans the reusable pool in ascending id order, skipping (not
// waiting on) ids whose cooldown deadline has not yet elapsed, and returns
// the first id found eligible.
func (m *Manager) popReusable(now int64) (int32, bool) {
	var skipped []reusableEntry
	for m.reusable.Len() > 0 {
		e := heap.Pop(&m.reusable).(reusableEntry)
		if e.deadlineMs <= now {
			for _, s := range skipped {
				heap.Push(&m.reusable, s)
			}
			return e.id, true
		}
		skipped = append(skipped, e)
		m.metrics.RecordReclaimSkipped()
	}
	for _, s := range skipped {
		heap.Push(&m.reusable, s)
	}
	return 0, false
}

// Free releases id back to the pool. If the manager's cooldown is zero, the
// slot transitions directly to FREE and is immediately reusable; otherwise
// it transitions to RECLAIMED with a deadline of now+cooldown, and only
// becomes reusable once a later Allocate call observes that deadline has
// elapsed.
func (m *Manager) Free(id int32) error {
	start := m.clock.NowMillis()

	if id < 0 || int(id) >= m.layout.Capacity() {
		return NewErrIDOutOfRange(int(id), m.layout.Capacity())
	}

	statePtr := m.stateField(id)
	if !atomic.CompareAndSwapInt32(statePtr, StateAllocated, StateReclaimed) {
		return NewErrNotAllocated(int(id))
	}

	if cooldownMs := m.cooldownMs.Load(); cooldownMs == 0 {
		m.writeDeadline(id, 0)
		atomic.StoreInt32(statePtr, StateFree)
		heap.Push(&m.reusable, reusableEntry{id: id, deadlineMs: 0})
	} else {
		deadline := start + cooldownMs
		m.writeDeadline(id, deadline)
		heap.Push(&m.reusable, reusableEntry{id: id, deadlineMs: deadline})
	}

	m.metrics.RecordFree((m.clock.NowMillis() - start) * int64(time.Millisecond))
	return nil
}

// Addr returns a pointer to id's value slot, suitable for the Get*/Set*/
// Increment*/GetAndAdd*/ProposeMax* primitives in values.go. The pointer
// remains valid for as long as the underlying values region does.
func (m *Manager) Addr(id int32) *int64 {
	off := m.layout.valueOffset(int(id))
	return (*int64)(unsafe.Pointer(&m.values[off]))
}

// Close releases any internal state held by the manager. It does not touch
// the caller-owned regions, which outlive the manager by contract.
func (m *Manager) Close() error {
	m.reusable = nil
	return nil
}

func (m *Manager) stateField(id int32) *int32 {
	off := m.layout.metadataOffset(int(id)) + metaStateOffset
	return (*int32)(unsafe.Pointer(&m.metadata[off]))
}

func (m *Manager) writeTypeID(id int32, typeID int32) {
	off := m.layout.metadataOffset(int(id)) + metaTypeIDOffset
	binary.LittleEndian.PutUint32(m.metadata[off:off+4], uint32(typeID))
}

func (m *Manager) writeDeadline(id int32, deadlineMs int64) {
	off := m.layout.metadataOffset(int(id)) + metaDeadlineOffset
	binary.LittleEndian.PutUint64(m.metadata[off:off+8], uint64(deadlineMs))
}

func (m *Manager) writeKey(id int32, key []byte) {
	base := m.layout.metadataOffset(int(id)) + metaKeyOffset
	dst := m.metadata[base : base+m.layout.KeyLen()]
	n := copy(dst, key)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func (m *Manager) writeLabel(id int32, label string) {
	recBase := m.layout.metadataOffset(int(id))
	lenOff := recBase + m.layout.labelLenOffset()
	binary.LittleEndian.PutUint32(m.metadata[lenOff:lenOff+4], uint32(len(label)))

	base := recBase + m.layout.labelOffset()
	dst := m.metadata[base : base+m.layout.LabelLen()]
	n := copy(dst, label)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
