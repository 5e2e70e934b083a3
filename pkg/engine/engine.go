// Package engine executes benchmark scenarios end-to-end.
//
// Each scenario runs the pipeline compress → encapsulate → assemble →
// decapsulate → decompress → verify, timing every stage with the monotonic
// clock. The reverse path exists only to assert round-trip correctness; the
// headline processing time charges the sender's stages (compress and
// encapsulate) only.
//
// No failure escapes the engine boundary: every scenario yields either a
// successful result or a failed-with-reason record, and one failed scenario
// never prevents the rest of the matrix from running.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	qerrors "github.com/iotsec-lab/pqcbench/internal/errors"
	"github.com/iotsec-lab/pqcbench/pkg/kem"
	"github.com/iotsec-lab/pqcbench/pkg/matrix"
	"github.com/iotsec-lab/pqcbench/pkg/metrics"
)

// Stage identifies a state of the per-scenario state machine.
type Stage int

const (
	StageInit Stage = iota
	StageCompressing
	StageEncapsulating
	StageAssembling
	StageDecapsulating
	StageDecompressing
	StageVerifying
	StageDone
	StageFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Init"
	case StageCompressing:
		return "Compressing"
	case StageEncapsulating:
		return "Encapsulating"
	case StageAssembling:
		return "Assembling"
	case StageDecapsulating:
		return "Decapsulating"
	case StageDecompressing:
		return "Decompressing"
	case StageVerifying:
		return "Verifying"
	case StageDone:
		return "Done"
	case StageFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is the immutable record produced by executing one scenario. Owned
// exclusively by the aggregator after creation.
type Result struct {
	ScenarioID string `json:"scenario_id"`
	Dataset    string `json:"dataset"`
	Codec      string `json:"codec"`
	KEM        string `json:"kem"`

	SecurityLevel int  `json:"security_level"`
	Simulated     bool `json:"simulated"`

	OriginalSize         int `json:"original_size"`
	CompressedSize       int `json:"compressed_size"`
	OverheadSize         int `json:"overhead_size"`
	TotalTransmittedSize int `json:"total_transmitted_size"`

	CompressTime    time.Duration `json:"compress_time_ns"`
	EncapsulateTime time.Duration `json:"encapsulate_time_ns"`
	DecapsulateTime time.Duration `json:"decapsulate_time_ns"`
	DecompressTime  time.Duration `json:"decompress_time_ns"`

	// ProcessingTime is the headline sender-side cost:
	// CompressTime + EncapsulateTime.
	ProcessingTime time.Duration `json:"processing_time_ns"`

	CompressionRatio float64 `json:"compression_ratio"`
	SavingsPercent   float64 `json:"savings_percent"`

	Succeeded       bool   `json:"succeeded"`
	RoundTripOK     bool   `json:"round_trip_ok"`
	DecapMismatch   bool   `json:"decap_mismatch"`
	IntegrityFailed bool   `json:"integrity_failed"`
	Warning         string `json:"warning,omitempty"`
	FailedStage     string `json:"failed_stage,omitempty"`
	FailureReason   string `json:"failure_reason,omitempty"`
}

// Keyring holds the pre-generated key pair for each KEM profile, shared
// read-only across every scenario using that profile.
type Keyring map[string]*kem.KeyPair

// Engine runs scenarios with a bounded per-scenario timeout.
type Engine struct {
	log       *metrics.Logger
	tracer    metrics.Tracer
	collector *metrics.Collector
	timeout   time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *metrics.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTracer sets the tracer used for scenario and stage spans.
func WithTracer(t metrics.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithCollector sets the run collector.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithTimeout sets the per-scenario deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:       metrics.NullLogger(),
		tracer:    metrics.NoOpTracer{},
		collector: metrics.NewCollector(),
		timeout:   constants.DefaultScenarioTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Collector returns the engine's run collector.
func (e *Engine) Collector() *metrics.Collector {
	return e.collector
}

// PrepareKeys generates one key pair per profile. Key generation is out of
// the hot measurement path; the pairs are shared read-only afterwards.
func (e *Engine) PrepareKeys(ctx context.Context, profiles []*kem.Profile) (Keyring, error) {
	ring := make(Keyring, len(profiles))
	for _, p := range profiles {
		_, end := e.tracer.StartSpan(ctx, metrics.SpanKeyGen,
			metrics.WithAttributes(map[string]interface{}{"kem": p.Name()}))
		kp, err := p.GenerateKeyPair()
		end(err)
		if err != nil {
			return nil, fmt.Errorf("generate key pair for %s: %w", p.Name(), err)
		}
		ring[p.Name()] = kp
		e.log.Debug("key pair ready", metrics.Fields{"kem": p.Name(), "mode": p.Mode().String()})
	}
	return ring, nil
}

// Run executes one scenario, bounded by the per-scenario timeout. It always
// returns a result; it never panics and never aborts the caller's loop.
func (e *Engine) Run(ctx context.Context, spec matrix.Spec, ring Keyring) Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- e.failed(spec, StageFailed, fmt.Errorf("backend panic: %v", r))
			}
		}()
		done <- e.runPipeline(ctx, spec, ring)
	}()

	select {
	case res := <-done:
		e.record(res)
		return res
	case <-ctx.Done():
		res := e.failed(spec, StageFailed, qerrors.ErrTimeout)
		e.record(res)
		return res
	}
}

// RunMatrix executes all scenarios, sequentially for workers <= 1 or on a
// bounded worker pool otherwise. Results are returned in completion order;
// the aggregator restores canonical matrix order at serialization time.
func (e *Engine) RunMatrix(ctx context.Context, specs []matrix.Spec, ring Keyring, workers int) []Result {
	if workers <= 1 {
		results := make([]Result, 0, len(specs))
		for _, spec := range specs {
			results = append(results, e.Run(ctx, spec, ring))
		}
		return results
	}

	jobs := make(chan matrix.Spec)
	out := make(chan Result, len(specs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for spec := range jobs {
				out <- e.Run(ctx, spec, ring)
			}
		}()
	}

	for _, spec := range specs {
		jobs <- spec
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]Result, 0, len(specs))
	for res := range out {
		results = append(results, res)
	}
	return results
}

// runPipeline drives the state machine for one scenario.
func (e *Engine) runPipeline(ctx context.Context, spec matrix.Spec, ring Keyring) Result {
	ctx, endScenario := e.tracer.StartSpan(ctx, metrics.SpanScenario,
		metrics.WithAttributes(map[string]interface{}{"scenario": spec.ID()}))

	res := Result{
		ScenarioID:    spec.ID(),
		Dataset:       spec.Dataset.Name,
		Codec:         spec.Codec.Name(),
		KEM:           spec.KEM.Name(),
		SecurityLevel: int(spec.KEM.Level()),
		Simulated:     spec.KEM.Simulated(),
		OriginalSize:  spec.Dataset.Size(),
	}

	kp, ok := ring[spec.KEM.Name()]
	if !ok {
		endScenario(qerrors.ErrUnsupportedParameterSet)
		return e.failed(spec, StageInit, qerrors.ErrUnsupportedParameterSet)
	}

	// Compressing
	_, endStage := e.tracer.StartSpan(ctx, metrics.SpanCompress)
	start := time.Now()
	compressed, err := spec.Codec.Compress(spec.Dataset.Bytes)
	res.CompressTime = time.Since(start)
	endStage(err)
	if err != nil {
		endScenario(err)
		return e.failed(spec, StageCompressing, err)
	}
	res.CompressedSize = len(compressed)
	// A stage that straddled the deadline must not leak samples into the
	// histograms after the caller has already recorded a timeout.
	if ctx.Err() != nil {
		endScenario(qerrors.ErrTimeout)
		return e.failed(spec, StageCompressing, qerrors.ErrTimeout)
	}
	e.collector.ObserveStage(StageCompressing.String(), res.CompressTime)

	// Encapsulating
	_, endStage = e.tracer.StartSpan(ctx, metrics.SpanEncapsulate)
	start = time.Now()
	ciphertext, sharedSecret, err := spec.KEM.Encapsulate(kp.Public)
	res.EncapsulateTime = time.Since(start)
	endStage(err)
	if err != nil {
		endScenario(err)
		return e.failed(spec, StageEncapsulating, err)
	}
	res.OverheadSize = len(ciphertext)
	if ctx.Err() != nil {
		endScenario(qerrors.ErrTimeout)
		return e.failed(spec, StageEncapsulating, qerrors.ErrTimeout)
	}
	e.collector.ObserveStage(StageEncapsulating.String(), res.EncapsulateTime)

	// Assembling: pure bookkeeping, no real transmission.
	_, endStage = e.tracer.StartSpan(ctx, metrics.SpanAssemble)
	payload := make([]byte, 0, len(compressed)+len(ciphertext))
	payload = append(payload, compressed...)
	payload = append(payload, ciphertext...)
	res.TotalTransmittedSize = len(payload)
	endStage(nil)

	// Decapsulating (receiver side, correctness only)
	_, endStage = e.tracer.StartSpan(ctx, metrics.SpanDecapsulate)
	start = time.Now()
	recovered, err := spec.KEM.Decapsulate(kp.Secret, payload[len(compressed):])
	res.DecapsulateTime = time.Since(start)
	endStage(err)
	if err != nil {
		endScenario(err)
		return e.failed(spec, StageDecapsulating, err)
	}
	if ctx.Err() != nil {
		endScenario(qerrors.ErrTimeout)
		return e.failed(spec, StageDecapsulating, qerrors.ErrTimeout)
	}
	e.collector.ObserveStage(StageDecapsulating.String(), res.DecapsulateTime)

	// ML-KEM carries a negligible decapsulation-failure bound; a mismatch is
	// recorded, never treated as a crash.
	if !bytes.Equal(recovered, sharedSecret) {
		res.DecapMismatch = true
		res.Warning = qerrors.NewScenarioError(StageDecapsulating.String(),
			qerrors.ErrDecapsulationMismatch).Error()
		e.log.Warn("decapsulated secret mismatch", metrics.Fields{
			"scenario": spec.ID(),
			"reason":   qerrors.ErrDecapsulationMismatch.Error(),
		})
	}

	// Decompressing
	_, endStage = e.tracer.StartSpan(ctx, metrics.SpanDecompress)
	start = time.Now()
	restored, err := spec.Codec.Decompress(payload[:len(compressed)])
	res.DecompressTime = time.Since(start)
	endStage(err)
	if err != nil {
		endScenario(err)
		return e.failed(spec, StageDecompressing, err)
	}
	if ctx.Err() != nil {
		endScenario(qerrors.ErrTimeout)
		return e.failed(spec, StageDecompressing, qerrors.ErrTimeout)
	}
	e.collector.ObserveStage(StageDecompressing.String(), res.DecompressTime)

	// Verifying
	_, endStage = e.tracer.StartSpan(ctx, metrics.SpanVerify)
	roundTripOK := bytes.Equal(restored, spec.Dataset.Bytes)
	if !roundTripOK {
		endStage(qerrors.ErrIntegrity)
		endScenario(qerrors.ErrIntegrity)
		failure := e.failed(spec, StageVerifying, qerrors.ErrIntegrity)
		failure.IntegrityFailed = true
		return failure
	}
	endStage(nil)

	res.RoundTripOK = true
	res.Succeeded = true
	res.ProcessingTime = res.CompressTime + res.EncapsulateTime
	res.CompressionRatio = ratio(res.OriginalSize, res.CompressedSize)
	res.SavingsPercent = savings(res.OriginalSize, res.TotalTransmittedSize)

	endScenario(nil)
	return res
}

// failed builds a failed-with-reason record for the scenario.
func (e *Engine) failed(spec matrix.Spec, stage Stage, cause error) Result {
	err := qerrors.NewScenarioError(stage.String(), cause)
	e.log.Error("scenario failed", metrics.Fields{
		"scenario": spec.ID(),
		"stage":    stage.String(),
		"reason":   cause.Error(),
	})
	return Result{
		ScenarioID:    spec.ID(),
		Dataset:       spec.Dataset.Name,
		Codec:         spec.Codec.Name(),
		KEM:           spec.KEM.Name(),
		SecurityLevel: int(spec.KEM.Level()),
		Simulated:     spec.KEM.Simulated(),
		OriginalSize:  spec.Dataset.Size(),
		FailedStage:   stage.String(),
		FailureReason: err.Error(),
	}
}

func (e *Engine) record(res Result) {
	e.collector.RecordScenario(res.Succeeded, res.OriginalSize, res.CompressedSize, res.OverheadSize)
	if res.Succeeded {
		e.log.Info("scenario done", metrics.Fields{
			"scenario":    res.ScenarioID,
			"total_bytes": res.TotalTransmittedSize,
			"savings_pct": fmt.Sprintf("%.1f", res.SavingsPercent),
		})
	}
}

// ratio returns original/compressed, guarding empty output.
func ratio(original, compressed int) float64 {
	if compressed == 0 {
		return 0
	}
	return float64(original) / float64(compressed)
}

// savings returns the bandwidth savings percentage,
// 100 * (1 - total/original). Negative when the payload expanded.
func savings(original, total int) float64 {
	if original == 0 {
		return 0
	}
	return (1 - float64(total)/float64(original)) * 100
}
