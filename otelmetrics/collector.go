// Package otelmetrics provides OpenTelemetry integration for the counters
// registry's allocator metrics.
//
// This package implements the counters.MetricsCollector interface using
// OpenTelemetry, enabling automatic percentile calculation (p50, p95, p99)
// and multi-backend support (Prometheus, Jaeger, DataDog, Grafana).
//
// # Usage
//
//	import (
//	    "github.com/nickelaway/aeron"
//	    "github.com/nickelaway/aeron/otelmetrics"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := otelmetrics.NewOTelMetricsCollector(provider)
//
//	mgr, _ := counters.NewManager(metadata, values, layout, clock, cooldownMs,
//	    counters.WithMetricsCollector(collector),
//	)
//
// # Metrics Exposed
//
//   - counters_allocate_latency_ns: Histogram of Allocate() latencies
//   - counters_free_latency_ns: Histogram of Free() latencies
//   - counters_exhaustion_total: Counter of capacity-exhausted Allocate calls
//   - counters_reclaim_skipped_total: Counter of RECLAIMED slots skipped
//     during allocation because their cooldown had not yet elapsed
//
// All metrics are aggregated by the OTEL SDK and can be exported to any
// OTEL-compatible backend.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package otelmetrics

import (
	"context"
	"errors"

	counters "github.com/nickelaway/aeron"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements counters.MetricsCollector using
// OpenTelemetry.
//
// Thread-safety: safe for concurrent use by multiple goroutines. The
// underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	allocateLatency metric.Int64Histogram
	freeLatency     metric.Int64Histogram
	exhaustions     metric.Int64Counter
	reclaimSkipped  metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/nickelaway/aeron"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing metrics
// from multiple registries in the same process.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{
		MeterName: "github.com/nickelaway/aeron",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)

	collector := &OTelMetricsCollector{}

	var err error
	collector.allocateLatency, err = meter.Int64Histogram(
		"counters_allocate_latency_ns",
		metric.WithDescription("Latency of Allocate operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.freeLatency, err = meter.Int64Histogram(
		"counters_free_latency_ns",
		metric.WithDescription("Latency of Free operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.exhaustions, err = meter.Int64Counter(
		"counters_exhaustion_total",
		metric.WithDescription("Total number of Allocate calls that found no reusable id"),
	)
	if err != nil {
		return nil, err
	}

	collector.reclaimSkipped, err = meter.Int64Counter(
		"counters_reclaim_skipped_total",
		metric.WithDescription("Total number of RECLAIMED slots skipped during allocation because their cooldown had not elapsed"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordAllocate implements counters.MetricsCollector.
func (c *OTelMetricsCollector) RecordAllocate(latencyNs int64) {
	c.allocateLatency.Record(context.Background(), latencyNs)
}

// RecordFree implements counters.MetricsCollector.
func (c *OTelMetricsCollector) RecordFree(latencyNs int64) {
	c.freeLatency.Record(context.Background(), latencyNs)
}

// RecordExhaustion implements counters.MetricsCollector.
func (c *OTelMetricsCollector) RecordExhaustion() {
	c.exhaustions.Add(context.Background(), 1)
}

// RecordReclaimSkipped implements counters.MetricsCollector.
func (c *OTelMetricsCollector) RecordReclaimSkipped() {
	c.reclaimSkipped.Add(context.Background(), 1)
}

// Compile-time interface check.
var _ counters.MetricsCollector = (*OTelMetricsCollector)(nil)
