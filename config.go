// config.go: configuration for the counters registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import "time"

// DefaultCooldown is the cooldown DefaultConfig sets. Validate does not
// apply it: a Config whose Cooldown is zero gets immediate reuse (see
// Config.Cooldown's doc comment).
const DefaultCooldown = 2 * time.Second

// Config holds the parameters needed to stand up a Manager over a pair of
// caller-supplied regions.
type Config struct {
	// MetadataLen is the length, in bytes, of the caller-supplied metadata
	// region.
	MetadataLen int

	// ValuesLen is the length, in bytes, of the caller-supplied values
	// region.
	ValuesLen int

	// KeyLen is the fixed width, in bytes, of the opaque key area embedded
	// in each metadata record. Default: DefaultKeyLen.
	KeyLen int

	// LabelLen is the maximum label length, in bytes. Default:
	// DefaultLabelLen.
	LabelLen int

	// Cooldown is the minimum duration a freed id waits before it becomes
	// reusable. A negative value is invalid. Zero is a valid, explicit
	// choice (immediate reuse); Validate never overwrites it, since the
	// caller cannot otherwise express "reuse immediately". DefaultConfig
	// sets it to DefaultCooldown.
	Cooldown time.Duration

	// Logger is used for allocator diagnostics (exhaustion warnings).
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// Clock provides the time source used for cooldown deadlines. If nil,
	// a cached system clock is used. Default: NewSystemClock().
	Clock Clock

	// MetricsCollector is used for collecting allocator metrics (allocate/
	// free latency, exhaustion, reclaim-skip counts). If nil,
	// NoOpMetricsCollector is used (zero overhead). Default:
	// NoOpMetricsCollector.
	MetricsCollector MetricsCollector
}

// Validate normalizes c in place, filling in defaults for fields left at
// their zero value, and returns an error if the configuration cannot be
// made valid (e.g. a negative cooldown).
//
// Default values applied:
//   - KeyLen: DefaultKeyLen if <= 0
//   - LabelLen: DefaultLabelLen if <= 0
//   - Logger: NoOpLogger{} if nil
//   - Clock: NewSystemClock() if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.Cooldown < 0 {
		return NewErrInvalidCooldown(int64(c.Cooldown / time.Millisecond))
	}

	if c.KeyLen <= 0 {
		c.KeyLen = DefaultKeyLen
	}

	if c.LabelLen <= 0 {
		c.LabelLen = DefaultLabelLen
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.Clock == nil {
		c.Clock = NewSystemClock()
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults. MetadataLen
// and ValuesLen are left at zero: callers must set them from the lengths of
// the regions they obtained (see shmregion), since there is no sensible
// default capacity.
func DefaultConfig() Config {
	return Config{
		KeyLen:           DefaultKeyLen,
		LabelLen:         DefaultLabelLen,
		Cooldown:         DefaultCooldown,
		Logger:           NoOpLogger{},
		Clock:            NewSystemClock(),
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// NewManagerFromConfig validates cfg, derives a Layout from its region
// lengths, and constructs a Manager over metadata and values. It is a
// convenience wrapper combining NewLayout and NewManager for the common
// case where the caller already has Config's fields populated from a
// LayoutOptions-shaped source (e.g. a hot-reloadable file, see hot-reload.go).
func NewManagerFromConfig(metadata, values []byte, cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout, err := NewLayout(LayoutOptions{
		MetadataLen: cfg.MetadataLen,
		ValuesLen:   cfg.ValuesLen,
		KeyLen:      cfg.KeyLen,
		LabelLen:    cfg.LabelLen,
	})
	if err != nil {
		return nil, err
	}

	return NewManager(metadata, values, layout, cfg.Clock, int64(cfg.Cooldown/time.Millisecond),
		WithLogger(cfg.Logger),
		WithMetricsCollector(cfg.MetricsCollector),
	)
}
