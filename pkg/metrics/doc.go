// Package metrics provides observability primitives for the pqcbench harness.
//
// The package includes:
//   - Structured logging with levels
//   - Tracing with pluggable backends (no-op, in-memory, OpenTelemetry)
//   - Latency histograms for per-stage timing distributions
//   - A run collector aggregating counters across a benchmark run
package metrics
