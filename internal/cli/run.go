package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iotsec-lab/pqcbench/internal/appconfig"
	"github.com/iotsec-lab/pqcbench/internal/constants"
	"github.com/iotsec-lab/pqcbench/pkg/codec"
	"github.com/iotsec-lab/pqcbench/pkg/dataset"
	"github.com/iotsec-lab/pqcbench/pkg/engine"
	"github.com/iotsec-lab/pqcbench/pkg/kem"
	"github.com/iotsec-lab/pqcbench/pkg/matrix"
	"github.com/iotsec-lab/pqcbench/pkg/metrics"
	"github.com/iotsec-lab/pqcbench/pkg/report"
	"github.com/iotsec-lab/pqcbench/pkg/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the benchmark matrix and write reports",
	Long: `Run executes every dataset x codec x KEM scenario, or the reduced
quick matrix, and writes benchmark_results.json and benchmark_results.tex
into the output directory. Use --format to write only one of the two.

Scenario failures are isolated and recorded; the process exits non-zero
only when no output file could be written at all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runBenchmark(cmd.Context(), cfg)
	},
}

func init() {
	runCmd.Flags().String("mode", appconfig.ModeFull, "benchmark mode (quick, full)")
	runCmd.Flags().String("out", ".", "output directory for report files")
	runCmd.Flags().Int64("seed", constants.DefaultSeed, "dataset generation seed")
	runCmd.Flags().Bool("simulate", false, "force simulated KEM (no real cryptography)")
	runCmd.Flags().Int("timeout", 0, "per-scenario timeout in seconds (0 = default)")
	runCmd.Flags().Int("workers", constants.DefaultWorkers, "concurrent scenario workers")
	runCmd.Flags().String("format", appconfig.FormatAll, "report formats to write (json, latex, all)")
	runCmd.Flags().String("tracing", "none", "tracing backend (none, simple, otel)")

	_ = viper.BindPFlag("mode", runCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("format", runCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("outDir", runCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("simulate", runCmd.Flags().Lookup("simulate"))
	_ = viper.BindPFlag("timeout", runCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("tracing", runCmd.Flags().Lookup("tracing"))

	rootCmd.AddCommand(runCmd)
}

// runBenchmark assembles the matrix from the configuration and drives it
// through the engine and aggregator.
func runBenchmark(ctx context.Context, cfg *appconfig.Config) error {
	log := metrics.NewLogger(
		metrics.WithLevel(metrics.ParseLevel(cfg.LogLevel)),
		metrics.WithFormat(metrics.ParseFormat(cfg.LogFormat)),
	)
	tracer := newTracer(cfg.TracingBackend())

	datasets, codecs, profiles, fallbacks, err := buildMatrixInputs(cfg, log)
	if err != nil {
		return err
	}
	specs := matrix.Build(datasets, codecs, profiles)
	log.Info("matrix built", metrics.Fields{
		"mode":      cfg.Mode,
		"scenarios": len(specs),
		"workers":   cfg.EffectiveWorkers(),
	})

	eng := engine.New(
		engine.WithLogger(log),
		engine.WithTracer(tracer),
		engine.WithTimeout(cfg.ScenarioTimeout()),
	)

	started := time.Now()
	ring, err := eng.PrepareKeys(ctx, profiles)
	if err != nil {
		return fmt.Errorf("prepare keys: %w", err)
	}

	agg := report.NewAggregator()
	for _, res := range eng.RunMatrix(ctx, specs, ring, cfg.EffectiveWorkers()) {
		agg.Add(res)
	}

	meta := runMeta(cfg, datasets, codecs, profiles, fallbacks, started)
	rep := agg.Finalize(specs, meta, eng.Collector().Snapshot())

	_, endWrite := tracer.StartSpan(ctx, metrics.SpanWriteReports)
	written, err := rep.WriteFiles(cfg.OutputDir(), cfg.ReportFormat())
	endWrite(err)
	if err != nil {
		return err
	}
	for _, path := range written {
		log.Info("report written", metrics.Fields{"path": path})
	}
	return rep.WriteConsole(os.Stdout)
}

// buildMatrixInputs selects the datasets, codecs and KEM profiles for the
// configured mode. Quick mode exercises one representative of each axis.
func buildMatrixInputs(cfg *appconfig.Config, log *metrics.Logger) ([]dataset.Dataset, []codec.Codec, []*kem.Profile, []string, error) {
	if cfg.Mode == appconfig.ModeQuick {
		datasets, err := dataset.QuickSuite()
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("build datasets: %w", err)
		}
		lz4, err := codec.ByName("lz4")
		if err != nil {
			return nil, nil, nil, nil, err
		}
		profile, fellBack, err := kem.Resolve(constants.SecurityLevel3, cfg.Simulate)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		var fallbacks []string
		if fellBack {
			fallbacks = append(fallbacks, profile.Name())
			log.Warn("KEM backend unavailable, simulating", metrics.Fields{"kem": profile.Name()})
		}
		return datasets, []codec.Codec{lz4}, []*kem.Profile{profile}, fallbacks, nil
	}

	datasets, err := dataset.DefaultSuite(cfg.EffectiveSeed())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("build datasets: %w", err)
	}
	codecs, err := codec.Registry()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("build codecs: %w", err)
	}
	profiles, fallbacks, err := kem.DefaultProfiles(cfg.Simulate)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	for _, name := range fallbacks {
		log.Warn("KEM backend unavailable, simulating", metrics.Fields{"kem": name})
	}
	return datasets, codecs, profiles, fallbacks, nil
}

func runMeta(cfg *appconfig.Config, datasets []dataset.Dataset, codecs []codec.Codec, profiles []*kem.Profile, fallbacks []string, started time.Time) report.RunMeta {
	meta := report.RunMeta{
		Mode:             cfg.Mode,
		Seed:             cfg.EffectiveSeed(),
		Workers:          cfg.EffectiveWorkers(),
		Version:          version.String(),
		StartedAt:        started,
		FinishedAt:       time.Now(),
		FallbackProfiles: fallbacks,
	}
	for _, d := range datasets {
		meta.Datasets = append(meta.Datasets, d.Name)
	}
	for _, c := range codecs {
		meta.Codecs = append(meta.Codecs, c.Name())
	}
	for _, p := range profiles {
		meta.KEMs = append(meta.KEMs, p.Name())
		if p.Simulated() {
			meta.SimulatedProfiles = append(meta.SimulatedProfiles, p.Name())
		}
	}
	return meta
}

func newTracer(backend string) metrics.Tracer {
	switch backend {
	case "simple":
		return metrics.NewSimpleTracer()
	case "otel":
		return metrics.NewOTelTracer("pqcbench")
	default:
		return metrics.NoOpTracer{}
	}
}
