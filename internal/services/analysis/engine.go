package analysis

import (
	"context"
	"time"

	"confluence/internal/adapters/config"
	confluencedomain "confluence/internal/domain/confluence"
	"confluence/internal/domain/derivatives"
	"confluence/internal/domain/market_data"
	sentimentdomain "confluence/internal/domain/sentiment"
	"confluence/internal/metrics"
	confluencesvc "confluence/internal/services/confluence"
	"confluence/internal/services/optionsflow"
	sentimentsvc "confluence/internal/services/sentiment"
	"confluence/pkg/errors"
	"confluence/pkg/logger"
)

// Snapshot is one symbol's already-fetched input set. Acquisition, caching
// and persistence all live outside the engine; by the time a snapshot gets
// here every network round trip has already happened.
//
// Any member may be empty: the engine degrades to whatever components the
// snapshot can feed.
type Snapshot struct {
	Symbol  string                                       `json:"symbol"`
	Spot    float64                                      `json:"spot"`
	Candles market_data.Series                           `json:"candles"`
	Sources map[string]*sentimentdomain.SourceSentiment  `json:"sources"`
	Flow    []derivatives.FlowPrint                      `json:"flow"`
	Chain   []derivatives.ChainContract                  `json:"chain"`
}

// Result bundles every artifact of one analysis pass. Confluence is nil when
// no component had enough data; callers branch on that, it is not an error.
type Result struct {
	Symbol      string                                  `json:"symbol"`
	Technical   *confluencedomain.TechnicalScore        `json:"technical,omitempty"`
	Sentiment   *sentimentdomain.AggregatedSentiment    `json:"sentiment,omitempty"`
	FlowMetrics derivatives.OptionsFlowMetrics          `json:"flow_metrics"`
	Chain       *derivatives.ChainAnalysis              `json:"chain,omitempty"`
	Confluence  *confluencedomain.ConfluenceScore       `json:"confluence,omitempty"`
	Elapsed     time.Duration                           `json:"elapsed"`
}

// Engine orchestrates the leaf computations into one confluence pass per
// symbol. All stages are pure and synchronous; the engine holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	technical  *confluencesvc.TechnicalAnalyzer
	aggregator *sentimentsvc.Aggregator
	detector   *optionsflow.Detector
	flow       *optionsflow.MetricsCalculator
	chain      *optionsflow.ChainAnalyzer
	calculator *confluencesvc.Calculator
	registry   *sentimentdomain.Registry
	log        *logger.Logger
}

// NewEngine wires the engine from configuration. The registry is optional:
// when present it fills in sentiment sources for snapshots that carry none.
func NewEngine(cfg *config.Config, registry *sentimentdomain.Registry) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	calculator, err := confluencesvc.NewCalculator(
		confluencesvc.CalculatorConfigFrom(cfg.Confluence, cfg.Sentiment))
	if err != nil {
		return nil, err
	}

	return &Engine{
		technical:  confluencesvc.NewTechnicalAnalyzer(cfg.Technical),
		aggregator: sentimentsvc.NewAggregator(sentimentsvc.AggregatorConfigFrom(cfg.Sentiment)),
		detector:   optionsflow.NewDetector(optionsflow.DetectorConfigFrom(cfg.OptionsFlow)),
		flow:       optionsflow.NewMetricsCalculator(),
		chain:      optionsflow.NewChainAnalyzer(cfg.OptionsFlow.ContractMultiplier),
		calculator: calculator,
		registry:   registry,
		log:        logger.Get().With("component", "analysis_engine"),
	}, nil
}

// Analyze runs one full confluence pass over a snapshot. The context only
// covers provider collection for snapshots without sources; the computation
// itself has no cancellation points.
func (e *Engine) Analyze(ctx context.Context, snap Snapshot, sentimentHours float64) (*Result, error) {
	if snap.Symbol == "" {
		return nil, errors.Wrap(errors.ErrInvalidSymbol, "snapshot has no symbol")
	}

	started := time.Now()
	total := metrics.NewTimer("total")
	defer total.Stop()

	result := &Result{Symbol: snap.Symbol}

	// Technical
	stage := metrics.NewTimer("technical")
	result.Technical = e.technical.Analyze(snap.Symbol, snap.Candles)
	stage.Stop()
	recordAvailability(confluencedomain.ComponentTechnical, result.Technical != nil)

	// Sentiment
	stage = metrics.NewTimer("sentiment")
	sources := snap.Sources
	if sources == nil && e.registry != nil {
		sources = e.registry.Collect(ctx, snap.Symbol, sentimentHours)
	}
	result.Sentiment = e.aggregator.Aggregate(snap.Symbol, sentimentHours, sources)
	stage.Stop()
	recordAvailability(confluencedomain.ComponentSentiment, result.Sentiment != nil)
	if result.Sentiment != nil {
		metrics.SentimentSourcesUsed.Observe(float64(result.Sentiment.SourceCount))
		if result.Sentiment.DivergenceDetected {
			metrics.DivergenceDetected.Inc()
			e.log.Infow("sentiment divergence",
				"symbol", snap.Symbol,
				"score", result.Sentiment.DivergenceScore,
				"providers", result.Sentiment.ProvidersUsed)
		}
	}

	// Options flow
	stage = metrics.NewTimer("options_flow")
	classified := e.detector.Classify(snap.Flow)
	for _, p := range classified {
		metrics.FlowPatterns.WithLabelValues(string(p.Pattern)).Inc()
	}
	result.FlowMetrics = e.flow.Calculate(snap.Symbol, classified, snap.Chain)
	if len(snap.Chain) > 0 {
		chain := e.chain.Analyze(snap.Symbol, snap.Chain)
		result.Chain = &chain
	}
	flowSignal := confluencesvc.FlowSignalFrom(result.FlowMetrics, result.Chain)
	stage.Stop()
	recordAvailability(confluencedomain.ComponentFlow, flowSignal != nil)

	// Confluence
	stage = metrics.NewTimer("confluence")
	result.Confluence = e.calculator.Calculate(snap.Symbol, confluencesvc.Inputs{
		Technical: result.Technical,
		Sentiment: result.Sentiment,
		Flow:      flowSignal,
	})
	stage.Stop()

	result.Elapsed = time.Since(started)

	if result.Confluence == nil {
		metrics.AnalysisRuns.WithLabelValues("insufficient_data").Inc()
		e.log.Debugw("no component had enough data", "symbol", snap.Symbol)
		return result, nil
	}

	metrics.AnalysisRuns.WithLabelValues("success").Inc()
	metrics.ThresholdGates.WithLabelValues(gateLabel(result.Confluence)).Inc()

	e.log.Infow("confluence computed",
		"symbol", snap.Symbol,
		"score", result.Confluence.Score,
		"level", result.Confluence.Level.String(),
		"confidence", result.Confluence.Confidence,
		"components", result.Confluence.ComponentsUsed,
		"elapsed", result.Elapsed)

	return result, nil
}

func recordAvailability(component string, available bool) {
	label := "no"
	if available {
		label = "yes"
	}
	metrics.ComponentAvailability.WithLabelValues(component, label).Inc()
}

func gateLabel(score *confluencedomain.ConfluenceScore) string {
	switch {
	case score.MeetsHighThreshold:
		return "high_conviction"
	case score.MeetsMinimumThreshold:
		return "actionable"
	default:
		return "below_min"
	}
}
