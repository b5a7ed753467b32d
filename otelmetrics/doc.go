// Package otelmetrics provides OpenTelemetry integration for the counters
// registry's allocator metrics.
//
// # Overview
//
// This package implements the counters.MetricsCollector interface using
// OpenTelemetry, enabling automatic percentile calculation and multi-backend
// support (Prometheus, Jaeger, DataDog, Grafana).
//
// The package is a separate module to keep the registry core lightweight.
// Applications that don't need metrics collection don't pay for the OTEL
// dependencies.
//
// # Quick Start
//
//	import (
//	    "github.com/nickelaway/aeron"
//	    "github.com/nickelaway/aeron/otelmetrics"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := otelmetrics.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mgr, _ := counters.NewManager(metadata, values, layout, clock, cooldownMs,
//	    counters.WithMetricsCollector(collector),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":2112", nil))
//
// # Metrics Exposed
//
// Histograms (with automatic percentiles):
//   - counters_allocate_latency_ns
//   - counters_free_latency_ns
//
// Counters:
//   - counters_exhaustion_total
//   - counters_reclaim_skipped_total
//
// # Configuration
//
// Custom meter name (useful for multiple registries in the same process):
//
//	collector, err := otelmetrics.NewOTelMetricsCollector(
//	    provider,
//	    otelmetrics.WithMeterName("myapp_registry"),
//	)
//
// # Prometheus Queries
//
// Calculate P99 allocate latency (last 5 minutes):
//
//	histogram_quantile(0.99, rate(counters_allocate_latency_ns_bucket[5m]))
//
// Calculate exhaustion rate:
//
//	rate(counters_exhaustion_total[1m])
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│   counters Manager (Core Module)    │
//	│  • No OTEL dependencies             │
//	│  • MetricsCollector interface       │
//	│  • NoOpMetricsCollector (default)   │
//	└──────────────┬──────────────────────┘
//	               │ implements
//	               ▼
//	┌─────────────────────────────────────┐
//	│   otelmetrics (This Package)        │
//	│  • OTelMetricsCollector             │
//	│  • OTEL SDK dependencies            │
//	└──────────────┬──────────────────────┘
//	               │ exports to
//	               ▼
//	     Prometheus / Jaeger / DataDog
//
// # Thread Safety
//
// All methods are thread-safe and use lock-free OTEL instruments.
package otelmetrics
