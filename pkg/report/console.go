package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed).SprintFunc()
	warnLabel = color.New(color.FgYellow).SprintFunc()
	heading   = color.New(color.Bold).SprintFunc()
)

// WriteConsole renders the human-readable run summary: per-dataset winners,
// the failure list, and a warning banner for any simulated KEM profile.
func (r *Report) WriteConsole(w io.Writer) error {
	fmt.Fprintf(w, "\n%s\n", heading("Benchmark Summary"))
	fmt.Fprintf(w, "mode=%s seed=%d workers=%d scenarios=%d succeeded=%d failed=%d\n",
		r.Meta.Mode, r.Meta.Seed, r.Meta.Workers,
		len(r.Results), len(r.Results)-len(r.Failed), len(r.Failed))

	if len(r.Meta.SimulatedProfiles) > 0 {
		fmt.Fprintf(w, "%s simulated KEM profiles (timings are NOT representative): %v\n",
			warnLabel("WARNING:"), r.Meta.SimulatedProfiles)
	}
	if len(r.Meta.FallbackProfiles) > 0 {
		fmt.Fprintf(w, "%s backend unavailable, fell back to simulation: %v\n",
			warnLabel("WARNING:"), r.Meta.FallbackProfiles)
	}

	for _, s := range r.Summary {
		fmt.Fprintf(w, "\n%s\n", heading(s.Dataset))
		if s.BestSavings != nil {
			fmt.Fprintf(w, "  best savings: %s + %s  (%d B total, %.1f%% saved)\n",
				s.BestSavings.Codec, s.BestSavings.KEM,
				s.BestSavings.TotalTransmittedSize, s.BestSavings.SavingsPercent)
		}
		if s.Fastest != nil {
			fmt.Fprintf(w, "  fastest:      %s + %s  (%.3f ms)\n",
				s.Fastest.Codec, s.Fastest.KEM, s.Fastest.ProcessingTimeMs)
		}
		if s.BestSavings == nil && s.Fastest == nil {
			fmt.Fprintf(w, "  %s no successful scenarios\n", failLabel("✗"))
		}
	}

	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Failed Scenarios"))
		for _, f := range r.Failed {
			fmt.Fprintf(w, "  %s %s  stage=%s  %s\n",
				failLabel("✗"), f.ScenarioID, f.FailedStage, f.FailureReason)
		}
	}

	status := okLabel("OK")
	if !r.OverallSuccess {
		status = failLabel("FAILED")
	}
	_, err := fmt.Fprintf(w, "\noverall: %s\n", status)
	return err
}
