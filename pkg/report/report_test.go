package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	qerrors "github.com/iotsec-lab/pqcbench/internal/errors"
	"github.com/iotsec-lab/pqcbench/pkg/codec"
	"github.com/iotsec-lab/pqcbench/pkg/dataset"
	"github.com/iotsec-lab/pqcbench/pkg/engine"
	"github.com/iotsec-lab/pqcbench/pkg/kem"
	"github.com/iotsec-lab/pqcbench/pkg/matrix"
	"github.com/iotsec-lab/pqcbench/pkg/metrics"
)

func testSpecs(t *testing.T) []matrix.Spec {
	t.Helper()
	profiles, _, err := kem.DefaultProfiles(true)
	if err != nil {
		t.Fatalf("DefaultProfiles: %v", err)
	}
	datasets, err := dataset.QuickSuite()
	if err != nil {
		t.Fatalf("QuickSuite: %v", err)
	}
	codecs, err := codec.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	return matrix.Build(datasets, codecs, profiles)
}

func resultFor(spec matrix.Spec, total int, processing time.Duration) engine.Result {
	return engine.Result{
		ScenarioID:           spec.ID(),
		Dataset:              spec.Dataset.Name,
		Codec:                spec.Codec.Name(),
		KEM:                  spec.KEM.Name(),
		SecurityLevel:        int(spec.KEM.Level()),
		Simulated:            spec.KEM.Simulated(),
		OriginalSize:         spec.Dataset.Size(),
		CompressedSize:       total - spec.KEM.CiphertextSize(),
		OverheadSize:         spec.KEM.CiphertextSize(),
		TotalTransmittedSize: total,
		ProcessingTime:       processing,
		SavingsPercent:       (1 - float64(total)/float64(spec.Dataset.Size())) * 100,
		Succeeded:            true,
		RoundTripOK:          true,
	}
}

func testMeta() RunMeta {
	now := time.Now()
	return RunMeta{
		Mode:       "quick",
		Seed:       constants.DefaultSeed,
		Workers:    1,
		Version:    "test",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
}

func TestFinalizeRestoresCanonicalOrder(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	// Feed results in reverse completion order.
	for i := len(specs) - 1; i >= 0; i-- {
		agg.Add(resultFor(specs[i], 2000+i, time.Millisecond))
	}

	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})
	if len(rep.Results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(rep.Results), len(specs))
	}
	for i, res := range rep.Results {
		if res.ScenarioID != specs[i].ID() {
			t.Errorf("position %d: got %s, want %s", i, res.ScenarioID, specs[i].ID())
		}
	}
}

func TestFinalizeSplitsFailed(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for i, spec := range specs {
		res := resultFor(spec, 2000, time.Millisecond)
		if i == 1 {
			res.Succeeded = false
			res.FailedStage = "Compressing"
			res.FailureReason = "boom"
		}
		agg.Add(res)
	}

	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})
	if len(rep.Failed) != 1 {
		t.Fatalf("got %d failed, want 1", len(rep.Failed))
	}
	if rep.Failed[0].ScenarioID != specs[1].ID() {
		t.Errorf("wrong failed scenario: %s", rep.Failed[0].ScenarioID)
	}
	if !rep.OverallSuccess {
		t.Error("partial failure should still report overall success")
	}
	// Failed results stay in the full list too.
	if len(rep.Results) != len(specs) {
		t.Errorf("failed results must remain in Results: got %d, want %d",
			len(rep.Results), len(specs))
	}
}

func TestOverallSuccessFalseWithZeroSuccesses(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for _, spec := range specs {
		res := resultFor(spec, 2000, time.Millisecond)
		res.Succeeded = false
		res.FailedStage = "Encapsulating"
		agg.Add(res)
	}

	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})
	if rep.OverallSuccess {
		t.Error("zero successes must yield OverallSuccess=false")
	}
	if len(rep.Summary) == 0 {
		t.Fatal("summary should still list the dataset")
	}
	if rep.Summary[0].BestSavings != nil || rep.Summary[0].Fastest != nil {
		t.Error("no winners expected with zero successes")
	}
}

func TestSummaryWinners(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for i, spec := range specs {
		// Make spec 0 smallest and spec 2 fastest.
		total := 3000 + i*100
		proc := time.Duration(10-i) * time.Millisecond
		agg.Add(resultFor(spec, total, proc))
	}

	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})
	if len(rep.Summary) != 1 {
		t.Fatalf("got %d summaries, want 1", len(rep.Summary))
	}
	s := rep.Summary[0]
	if s.BestSavings == nil || s.BestSavings.ScenarioID != specs[0].ID() {
		t.Errorf("best savings: got %+v, want %s", s.BestSavings, specs[0].ID())
	}
	last := specs[len(specs)-1]
	if s.Fastest == nil || s.Fastest.ScenarioID != last.ID() {
		t.Errorf("fastest: got %+v, want %s", s.Fastest, last.ID())
	}
}

func TestSummaryTieBreaksByLowerSecurityLevel(t *testing.T) {
	specs := testSpecs(t)

	// Give every scenario identical size and time; the winner must be the
	// lowest security level, which in canonical order appears first per codec.
	agg := NewAggregator()
	for _, spec := range specs {
		agg.Add(resultFor(spec, 2000, time.Millisecond))
	}

	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})
	s := rep.Summary[0]
	if s.BestSavings == nil {
		t.Fatal("expected a best-savings winner")
	}
	winner, err := kem.ProfileByName(s.BestSavings.KEM, true)
	if err != nil {
		t.Fatalf("ProfileByName(%s): %v", s.BestSavings.KEM, err)
	}
	if winner.Level() != constants.SecurityLevel1 {
		t.Errorf("tie should go to NIST-1, got %s", winner.Level())
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for _, spec := range specs {
		agg.Add(resultFor(spec, 2000, time.Millisecond))
	}
	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Results) != len(rep.Results) {
		t.Errorf("got %d results after decode, want %d",
			len(decoded.Results), len(rep.Results))
	}
	if decoded.Results[0].ScenarioID != rep.Results[0].ScenarioID {
		t.Error("scenario IDs did not survive serialization")
	}
}

func TestWriteLaTeXProjectsResults(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for _, spec := range specs {
		agg.Add(resultFor(spec, 2000, time.Millisecond))
	}
	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})

	var buf bytes.Buffer
	if err := rep.WriteLaTeX(&buf); err != nil {
		t.Fatalf("WriteLaTeX: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `\begin{table}`) {
		t.Error("missing table environment")
	}
	// Underscores in names must be escaped for LaTeX.
	if !strings.Contains(out, `iot\_medium`) {
		t.Error("dataset name not escaped")
	}
	for _, spec := range specs {
		if !strings.Contains(out, escape(spec.Codec.Name())) {
			t.Errorf("codec %s missing from LaTeX output", spec.Codec.Name())
		}
	}
}

func TestWriteFiles(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	agg.Add(resultFor(specs[0], 2000, time.Millisecond))
	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})

	dir := t.TempDir()
	written, err := rep.WriteFiles(dir, FormatAll)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("got %d files, want 2", len(written))
	}
	for _, name := range []string{constants.JSONOutputName, constants.LaTeXOutputName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestWriteFilesFormatSelection(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	agg.Add(resultFor(specs[0], 2000, time.Millisecond))
	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})

	tests := []struct {
		format  string
		present []string
		absent  []string
	}{
		{FormatJSON, []string{constants.JSONOutputName}, []string{constants.LaTeXOutputName}},
		{FormatLaTeX, []string{constants.LaTeXOutputName}, []string{constants.JSONOutputName}},
		{FormatAll, []string{constants.JSONOutputName, constants.LaTeXOutputName}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			written, err := rep.WriteFiles(dir, tt.format)
			if err != nil {
				t.Fatalf("WriteFiles(%s): %v", tt.format, err)
			}
			if len(written) != len(tt.present) {
				t.Errorf("wrote %d files, want %d", len(written), len(tt.present))
			}
			for _, name := range tt.present {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("missing %s: %v", name, err)
				}
			}
			for _, name := range tt.absent {
				if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
					t.Errorf("%s written despite format %s", name, tt.format)
				}
			}
		})
	}
}

func TestWriteFilesRejectsUnknownFormat(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	agg.Add(resultFor(specs[0], 2000, time.Millisecond))
	rep := agg.Finalize(specs, testMeta(), metrics.Snapshot{})

	_, err := rep.WriteFiles(t.TempDir(), "xml")
	if !errors.Is(err, qerrors.ErrNoOutput) {
		t.Fatalf("got %v, want ErrNoOutput", err)
	}
}

func TestWriteConsole(t *testing.T) {
	specs := testSpecs(t)

	agg := NewAggregator()
	for i, spec := range specs {
		res := resultFor(spec, 2000, time.Millisecond)
		if i == 0 {
			res.Succeeded = false
			res.FailedStage = "Verifying"
			res.FailureReason = "payload integrity check failed"
		}
		agg.Add(res)
	}
	meta := testMeta()
	meta.SimulatedProfiles = []string{"Kyber512", "Kyber768", "Kyber1024"}
	rep := agg.Finalize(specs, meta, metrics.Snapshot{})

	var buf bytes.Buffer
	if err := rep.WriteConsole(&buf); err != nil {
		t.Fatalf("WriteConsole: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Benchmark Summary", "WARNING:", "Failed Scenarios", specs[0].ID()} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q", want)
		}
	}
}
