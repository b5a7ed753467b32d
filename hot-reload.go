// hot-reload.go: dynamic cooldown reload with Argus integration
//
// Capacity, KeyLen, and LabelLen are baked into the regions at creation time
// and cannot be changed without remapping and re-laying-out the registry, so
// they are not hot-reloadable. Cooldown is the one Config field a running
// Manager can safely pick up without reconstruction: wire a *Manager into
// HotCooldownOptions.Manager and every reload calls Manager.SetCooldownMs,
// which only affects which ids popReusable considers eligible on the next
// Allocate call.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package counters

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
)

// CooldownSetter is implemented by *Manager. HotCooldown calls SetCooldownMs
// on reload so a running Manager actually picks up the new value; without a
// CooldownSetter, HotCooldown only tracks the file's value for its own
// Cooldown()/CooldownMs() accessors and never reaches a Manager.
type CooldownSetter interface {
	SetCooldownMs(cooldownMs int64)
}

// HotCooldown watches a configuration file and atomically republishes the
// manager's cooldown when the file changes, without blocking Allocate/Free.
type HotCooldown struct {
	cooldownMs atomic.Int64
	watcher    *argus.Watcher
	manager    CooldownSetter

	// OnReload is called after a new cooldown is applied. Optional, must
	// be fast and non-blocking.
	OnReload func(oldCooldown, newCooldown time.Duration)

	logger Logger
}

// HotCooldownOptions configures NewHotCooldown.
type HotCooldownOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI, and Properties formats (anything Argus's
	// universal loader parses).
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// InitialCooldown seeds the cooldown before the first file read
	// completes.
	InitialCooldown time.Duration

	// Manager, if set, receives every reloaded cooldown via SetCooldownMs,
	// so a running allocator's popReusable eligibility actually changes
	// when the watched file changes. *Manager satisfies this interface.
	Manager CooldownSetter

	OnReload func(oldCooldown, newCooldown time.Duration)

	Logger Logger
}

// NewHotCooldown starts watching opts.ConfigPath and returns a HotCooldown
// whose Cooldown() reflects the file's current "counters.cooldown" value (a
// duration string such as "2s"), falling back to InitialCooldown until the
// first successful parse.
//
// Example configuration file (YAML):
//
//	counters:
//	  cooldown: "2s"
func NewHotCooldown(opts HotCooldownOptions) (*HotCooldown, error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotCooldown{
		OnReload: opts.OnReload,
		logger:   opts.Logger,
		manager:  opts.Manager,
	}
	hc.cooldownMs.Store(int64(opts.InitialCooldown / time.Millisecond))
	if hc.manager != nil {
		hc.manager.SetCooldownMs(hc.cooldownMs.Load())
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotCooldown) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotCooldown) Stop() error {
	return hc.watcher.Stop()
}

// Cooldown returns the currently active cooldown, safe to call
// concurrently with Start/Stop and from the allocating writer itself.
func (hc *HotCooldown) Cooldown() time.Duration {
	return time.Duration(hc.cooldownMs.Load()) * time.Millisecond
}

// CooldownMs returns the currently active cooldown in milliseconds, the
// unit NewManager and Manager.SetCooldownMs expect.
func (hc *HotCooldown) CooldownMs() int64 {
	return hc.cooldownMs.Load()
}

func (hc *HotCooldown) handleConfigChange(data map[string]interface{}) {
	newCooldown, ok := hc.parseCooldown(data)
	if !ok {
		return
	}

	old := hc.Cooldown()
	if old == newCooldown {
		return
	}

	hc.cooldownMs.Store(int64(newCooldown / time.Millisecond))
	if hc.manager != nil {
		hc.manager.SetCooldownMs(hc.cooldownMs.Load())
	}
	hc.logger.Info("counters: cooldown reloaded", "old", old, "new", newCooldown)

	if hc.OnReload != nil {
		hc.OnReload(old, newCooldown)
	}
}

func (hc *HotCooldown) parseCooldown(data map[string]interface{}) (time.Duration, bool) {
	section, ok := data["counters"].(map[string]interface{})
	if !ok {
		if _, hasCooldown := data["cooldown"]; hasCooldown {
			section = data
		} else {
			return 0, false
		}
	}

	str, ok := section["cooldown"].(string)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(str)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
