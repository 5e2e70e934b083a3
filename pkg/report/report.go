// Package report collects scenario results and serializes the benchmark
// report.
//
// The aggregator accepts results in arrival order so the engine may run
// scenarios concurrently; the finalized report is always sorted into the
// matrix builder's canonical order. The JSON and LaTeX outputs are pure
// projections of the same result collection, so the two files can never
// disagree.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	qerrors "github.com/iotsec-lab/pqcbench/internal/errors"
	"github.com/iotsec-lab/pqcbench/pkg/engine"
	"github.com/iotsec-lab/pqcbench/pkg/matrix"
	"github.com/iotsec-lab/pqcbench/pkg/metrics"
)

// RunMeta describes the run that produced a report.
type RunMeta struct {
	Mode              string    `json:"mode"` // "quick" or "full"
	Seed              int64     `json:"seed"`
	Workers           int       `json:"workers"`
	Version           string    `json:"version"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	Datasets          []string  `json:"datasets"`
	Codecs            []string  `json:"codecs"`
	KEMs              []string  `json:"kems"`
	SimulatedProfiles []string  `json:"simulated_profiles"`
	FallbackProfiles  []string  `json:"fallback_profiles"`
}

// BestConfig identifies a winning configuration for one dataset.
type BestConfig struct {
	ScenarioID           string  `json:"scenario_id"`
	Codec                string  `json:"codec"`
	KEM                  string  `json:"kem"`
	TotalTransmittedSize int     `json:"total_transmitted_size"`
	SavingsPercent       float64 `json:"savings_percent"`
	ProcessingTimeMs     float64 `json:"processing_time_ms"`
}

// DatasetSummary holds the per-dataset winners.
type DatasetSummary struct {
	Dataset     string      `json:"dataset"`
	BestSavings *BestConfig `json:"best_savings,omitempty"`
	Fastest     *BestConfig `json:"fastest,omitempty"`
}

// Report is the finalized, serializable output of one run.
type Report struct {
	Meta           RunMeta          `json:"meta"`
	Results        []engine.Result  `json:"results"`
	Failed         []engine.Result  `json:"failed"`
	Summary        []DatasetSummary `json:"summary"`
	OverallSuccess bool             `json:"overall_success"`
	Metrics        metrics.Snapshot `json:"metrics"`
}

// Aggregator accumulates scenario results during a run. It is a plain value
// passed through the pipeline; there is no ambient global state.
type Aggregator struct {
	results []engine.Result
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends a result in arrival order. Results are immutable; the
// aggregator owns them from here on.
func (a *Aggregator) Add(res engine.Result) {
	a.results = append(a.results, res)
}

// Len returns the number of collected results.
func (a *Aggregator) Len() int {
	return len(a.results)
}

// Finalize sorts results into the canonical matrix order, computes the
// per-dataset winners, and produces the report.
func (a *Aggregator) Finalize(specs []matrix.Spec, meta RunMeta, snapshot metrics.Snapshot) *Report {
	idx := matrix.Index(specs)

	ordered := make([]engine.Result, len(a.results))
	copy(ordered, a.results)
	// Canonical ordering regardless of completion order. Results for unknown
	// scenarios (none in practice) sort to the end, preserving arrival order.
	sortStable(ordered, func(x, y engine.Result) bool {
		xi, xok := idx[x.ScenarioID]
		yi, yok := idx[y.ScenarioID]
		if xok && yok {
			return xi < yi
		}
		return xok && !yok
	})

	var failed []engine.Result
	succeededCount := 0
	for _, r := range ordered {
		if r.Succeeded {
			succeededCount++
		} else {
			failed = append(failed, r)
		}
	}

	return &Report{
		Meta:           meta,
		Results:        ordered,
		Failed:         failed,
		Summary:        summarize(ordered),
		OverallSuccess: succeededCount > 0,
		Metrics:        snapshot,
	}
}

// summarize computes the per-dataset best-savings and fastest picks. Ties go
// to the lower KEM security level (the cheaper, still-acceptable option),
// then to canonical order.
func summarize(ordered []engine.Result) []DatasetSummary {
	var names []string
	byDataset := make(map[string][]engine.Result)
	for _, r := range ordered {
		if _, seen := byDataset[r.Dataset]; !seen {
			names = append(names, r.Dataset)
		}
		byDataset[r.Dataset] = append(byDataset[r.Dataset], r)
	}

	summaries := make([]DatasetSummary, 0, len(names))
	for _, name := range names {
		summary := DatasetSummary{Dataset: name}
		var bestSize, bestTime *engine.Result

		for i := range byDataset[name] {
			r := &byDataset[name][i]
			if !r.Succeeded {
				continue
			}
			if bestSize == nil || betterBySize(r, bestSize) {
				bestSize = r
			}
			if bestTime == nil || betterByTime(r, bestTime) {
				bestTime = r
			}
		}

		if bestSize != nil {
			summary.BestSavings = toBestConfig(bestSize)
		}
		if bestTime != nil {
			summary.Fastest = toBestConfig(bestTime)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// betterBySize reports whether candidate strictly beats current on total
// transmitted size, breaking ties by lower security level. Equal on both
// keeps the earlier (canonical-order) result.
func betterBySize(candidate, current *engine.Result) bool {
	if candidate.TotalTransmittedSize != current.TotalTransmittedSize {
		return candidate.TotalTransmittedSize < current.TotalTransmittedSize
	}
	return candidate.SecurityLevel < current.SecurityLevel
}

func betterByTime(candidate, current *engine.Result) bool {
	if candidate.ProcessingTime != current.ProcessingTime {
		return candidate.ProcessingTime < current.ProcessingTime
	}
	return candidate.SecurityLevel < current.SecurityLevel
}

func toBestConfig(r *engine.Result) *BestConfig {
	return &BestConfig{
		ScenarioID:           r.ScenarioID,
		Codec:                r.Codec,
		KEM:                  r.KEM,
		TotalTransmittedSize: r.TotalTransmittedSize,
		SavingsPercent:       r.SavingsPercent,
		ProcessingTimeMs:     durationMs(r.ProcessingTime),
	}
}

// WriteJSON serializes the report with stable keys for run-to-run diffing.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Output formats accepted by WriteFiles.
const (
	FormatJSON  = "json"
	FormatLaTeX = "latex"
	FormatAll   = "all"
)

// WriteFiles writes the selected report formats into dir. It returns the
// paths written. ErrNoOutput is returned only when no file could be
// produced; that is the sole condition for a non-zero process exit.
func (r *Report) WriteFiles(dir, format string) ([]string, error) {
	switch format {
	case FormatJSON, FormatLaTeX, FormatAll:
	default:
		return nil, fmt.Errorf("%w: unknown format %q", qerrors.ErrNoOutput, format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.ErrNoOutput, err)
	}

	var written []string
	var firstErr error

	if format != FormatLaTeX {
		jsonPath := filepath.Join(dir, constants.JSONOutputName)
		if err := writeWith(jsonPath, r.WriteJSON); err != nil {
			firstErr = err
		} else {
			written = append(written, jsonPath)
		}
	}

	if format != FormatJSON {
		texPath := filepath.Join(dir, constants.LaTeXOutputName)
		if err := writeWith(texPath, r.WriteLaTeX); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			written = append(written, texPath)
		}
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("%w: %v", qerrors.ErrNoOutput, firstErr)
	}
	return written, nil
}

func writeWith(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// durationMs converts a duration to milliseconds.
func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func sortStable(rs []engine.Result, less func(x, y engine.Result) bool) {
	sort.SliceStable(rs, func(i, j int) bool { return less(rs[i], rs[j]) })
}
