package metrics

import (
	"sync/atomic"
	"time"
)

// Collector aggregates counters and latency distributions across a benchmark
// run. One collector is created per run and handed to the engine; it never
// outlives the run.
type Collector struct {
	scenariosRun       atomic.Uint64
	scenariosSucceeded atomic.Uint64
	scenariosFailed    atomic.Uint64

	bytesOriginal   atomic.Uint64
	bytesCompressed atomic.Uint64
	bytesOverhead   atomic.Uint64

	compressLatency    *Histogram
	encapsulateLatency *Histogram
	decapsulateLatency *Histogram
	decompressLatency  *Histogram

	createdAt time.Time
}

// NewCollector creates a new run collector.
func NewCollector() *Collector {
	return &Collector{
		compressLatency:    NewLatencyHistogram(),
		encapsulateLatency: NewLatencyHistogram(),
		decapsulateLatency: NewLatencyHistogram(),
		decompressLatency:  NewLatencyHistogram(),
		createdAt:          time.Now(),
	}
}

// RecordScenario records the outcome and size counters of one scenario.
func (c *Collector) RecordScenario(succeeded bool, originalSize, compressedSize, overheadSize int) {
	c.scenariosRun.Add(1)
	if succeeded {
		c.scenariosSucceeded.Add(1)
	} else {
		c.scenariosFailed.Add(1)
		return
	}
	c.bytesOriginal.Add(uint64(originalSize))
	c.bytesCompressed.Add(uint64(compressedSize))
	c.bytesOverhead.Add(uint64(overheadSize))
}

// ObserveStage records a stage latency in milliseconds.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	switch stage {
	case "Compressing":
		c.compressLatency.Observe(ms)
	case "Encapsulating":
		c.encapsulateLatency.Observe(ms)
	case "Decapsulating":
		c.decapsulateLatency.Observe(ms)
	case "Decompressing":
		c.decompressLatency.Observe(ms)
	}
}

// Snapshot is a point-in-time view of the collector, safe to serialize.
type Snapshot struct {
	ScenariosRun       uint64 `json:"scenarios_run"`
	ScenariosSucceeded uint64 `json:"scenarios_succeeded"`
	ScenariosFailed    uint64 `json:"scenarios_failed"`

	BytesOriginal   uint64 `json:"bytes_original"`
	BytesCompressed uint64 `json:"bytes_compressed"`
	BytesOverhead   uint64 `json:"bytes_overhead"`

	CompressLatencyMs    HistogramSummary `json:"compress_latency_ms"`
	EncapsulateLatencyMs HistogramSummary `json:"encapsulate_latency_ms"`
	DecapsulateLatencyMs HistogramSummary `json:"decapsulate_latency_ms"`
	DecompressLatencyMs  HistogramSummary `json:"decompress_latency_ms"`

	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Snapshot returns a consistent view of all counters and histograms.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		ScenariosRun:       c.scenariosRun.Load(),
		ScenariosSucceeded: c.scenariosSucceeded.Load(),
		ScenariosFailed:    c.scenariosFailed.Load(),

		BytesOriginal:   c.bytesOriginal.Load(),
		BytesCompressed: c.bytesCompressed.Load(),
		BytesOverhead:   c.bytesOverhead.Load(),

		CompressLatencyMs:    c.compressLatency.Summary(),
		EncapsulateLatencyMs: c.encapsulateLatency.Summary(),
		DecapsulateLatencyMs: c.decapsulateLatency.Summary(),
		DecompressLatencyMs:  c.decompressLatency.Summary(),

		UptimeSeconds: time.Since(c.createdAt).Seconds(),
	}
}
