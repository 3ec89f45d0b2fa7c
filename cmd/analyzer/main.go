package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"confluence/internal/adapters/config"
	"confluence/internal/adapters/errors/noop"
	"confluence/internal/adapters/errors/sentry"
	"confluence/internal/metrics"
	"confluence/internal/services/analysis"
	"confluence/pkg/errors"
	"confluence/pkg/logger"
)

func main() {
	snapshotPath := flag.String("snapshot", "", "path to a JSON snapshot file (required)")
	hours := flag.Float64("hours", 24, "sentiment lookback window in hours")
	pretty := flag.Bool("pretty", false, "indent the JSON result")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)
	defer flushTracker(errorTracker)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Addr, log)
	}

	if *snapshotPath == "" {
		log.Error("missing required -snapshot flag")
		flag.Usage()
		os.Exit(2)
	}

	snap, err := loadSnapshot(*snapshotPath)
	if err != nil {
		log.Errorf("failed to load snapshot: %v", err)
		os.Exit(1)
	}

	engine, err := analysis.NewEngine(cfg, nil)
	if err != nil {
		log.Errorf("failed to build engine: %v", err)
		os.Exit(1)
	}

	result, err := engine.Analyze(context.Background(), *snap, *hours)
	if err != nil {
		log.Errorf("analysis failed: %v", err)
		os.Exit(1)
	}

	logSummary(log, result)

	if err := printResult(result, *pretty); err != nil {
		log.Errorf("failed to encode result: %v", err)
		os.Exit(1)
	}
}

// loadSnapshot reads one symbol snapshot from disk. Flow prints without an ID
// get one assigned so downstream logs can reference individual prints.
func loadSnapshot(path string) (*analysis.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", path)
	}

	var snap analysis.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse snapshot %s: %v", path, err)
	}

	for i := range snap.Flow {
		if snap.Flow[i].ID == "" {
			snap.Flow[i].ID = uuid.NewString()
		}
		if snap.Flow[i].Symbol == "" {
			snap.Flow[i].Symbol = snap.Symbol
		}
	}

	return &snap, nil
}

func logSummary(log *logger.Logger, result *analysis.Result) {
	log.Infow("flow summary",
		"symbol", result.Symbol,
		"volume", humanize.Comma(int64(result.FlowMetrics.TotalVolume)),
		"premium", "$"+humanize.Comma(int64(result.FlowMetrics.TotalPremium)),
		"sweeps", result.FlowMetrics.SweepCount,
		"blocks", result.FlowMetrics.BlockCount,
		"unusual", result.FlowMetrics.UnusualCount)

	if result.Chain != nil {
		log.Infow("chain summary",
			"symbol", result.Symbol,
			"max_pain", result.Chain.MaxPain,
			"gamma_exposure", humanize.SIWithDigits(result.Chain.GammaExposure, 2, ""))
	}

	if result.Confluence == nil {
		log.Warnw("no confluence produced", "symbol", result.Symbol)
		return
	}

	log.Infow("confluence",
		"symbol", result.Symbol,
		"score", fmt.Sprintf("%.4f", result.Confluence.Score),
		"level", result.Confluence.Level.String(),
		"confidence", fmt.Sprintf("%.2f", result.Confluence.Confidence),
		"actionable", result.Confluence.MeetsMinimumThreshold,
		"high_conviction", result.Confluence.MeetsHighThreshold)
}

func printResult(result *analysis.Result, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Sentry error tracking enabled")
	return tracker
}

func flushTracker(tracker errors.Tracker) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = tracker.Flush(ctx)
}

func serveMetrics(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	log.Infof("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("metrics server stopped: %v", err)
	}
}
