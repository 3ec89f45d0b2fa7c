package sentiment

import (
	"math"
	"sort"
	"time"

	"confluence/internal/adapters/config"
	domain "confluence/internal/domain/sentiment"
	"confluence/pkg/logger"
)

// AggregatorConfig tunes cross-provider fusion
type AggregatorConfig struct {
	ProviderWeights       map[string]float64 // base weight per provider, default 1
	MinProviderConfidence float64            // gate: sources below are excluded
	DivergenceThreshold   float64            // max-min spread that flags divergence
	DecayHalfLife         time.Duration      // continuous time-decay half-life
	MentionWeighting      bool               // use mention counts as a reliability proxy
	Thresholds            domain.Thresholds
}

// DefaultAggregatorConfig returns the reference tuning
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		ProviderWeights:       map[string]float64{},
		MinProviderConfidence: 0.8,
		DivergenceThreshold:   1.0,
		DecayHalfLife:         6 * time.Hour,
		MentionWeighting:      true,
		Thresholds:            domain.Thresholds{VeryBullish: 0.6, Bullish: 0.2},
	}
}

// AggregatorConfigFrom maps the env-driven sentiment section onto the
// aggregator tuning
func AggregatorConfigFrom(cfg config.SentimentConfig) AggregatorConfig {
	return AggregatorConfig{
		ProviderWeights:       cfg.ProviderWeights,
		MinProviderConfidence: cfg.MinProviderConfidence,
		DivergenceThreshold:   cfg.DivergenceThreshold,
		DecayHalfLife:         cfg.DecayHalfLife,
		MentionWeighting:      cfg.MentionWeighting,
		Thresholds:            domain.Thresholds{VeryBullish: cfg.VeryBullishCutoff, Bullish: cfg.BullishCutoff},
	}
}

// Aggregator fuses per-provider sentiment roll-ups into one unified view.
// It is pure and synchronous: it mutates no shared state and may run
// concurrently without synchronization.
type Aggregator struct {
	cfg AggregatorConfig
	log *logger.Logger

	// now is injectable for deterministic decay in tests
	now func() time.Time
}

// NewAggregator creates an aggregator
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	return &Aggregator{
		cfg: cfg,
		log: logger.Get().With("component", "sentiment_aggregator"),
		now: time.Now,
	}
}

// Aggregate fuses the available sources for a symbol over an hours-long
// lookback window. Nil entries, sources below the confidence gate and
// sources older than the window are excluded; when nothing survives, the
// result is nil: insufficient data, not zero sentiment.
func (a *Aggregator) Aggregate(symbol string, hours float64, sources map[string]*domain.SourceSentiment) *domain.AggregatedSentiment {
	if len(sources) == 0 {
		return nil
	}

	now := a.now().UTC()

	type weighted struct {
		provider string
		src      *domain.SourceSentiment
		weight   float64
	}

	included := make([]weighted, 0, len(sources))
	for provider, src := range sources {
		if src == nil {
			continue // provider in flight or returned nothing this cycle
		}
		if src.Confidence < a.cfg.MinProviderConfidence {
			a.log.Debugw("source below confidence gate",
				"symbol", symbol, "provider", provider, "confidence", src.Confidence)
			continue
		}
		if hours > 0 && now.Sub(src.Timestamp).Hours() > hours {
			a.log.Debugw("source outside lookback window",
				"symbol", symbol, "provider", provider, "age", now.Sub(src.Timestamp))
			continue
		}

		w := a.weight(provider, src, now)
		if w <= 0 {
			continue
		}
		included = append(included, weighted{provider: provider, src: src, weight: w})
	}

	if len(included) == 0 {
		return nil
	}

	// Deterministic ordering regardless of map iteration
	sort.Slice(included, func(i, j int) bool { return included[i].provider < included[j].provider })

	var weightSum, scoreSum, confSum float64
	minSent, maxSent := math.Inf(1), math.Inf(-1)

	providers := make([]string, 0, len(included))
	breakdown := make(map[string]float64, len(included))

	for _, w := range included {
		weightSum += w.weight
		scoreSum += w.weight * w.src.WeightedSentiment
		confSum += w.weight * w.src.Confidence
		providers = append(providers, w.provider)

		if w.src.WeightedSentiment < minSent {
			minSent = w.src.WeightedSentiment
		}
		if w.src.WeightedSentiment > maxSent {
			maxSent = w.src.WeightedSentiment
		}
	}

	for _, w := range included {
		breakdown[w.provider] = 100 * w.weight / weightSum
	}

	unified := scoreSum / weightSum

	spread := maxSent - minSent
	divergenceScore := clamp01(spread / 2)
	diverged := len(included) > 1 && spread > a.cfg.DivergenceThreshold

	// Disagreement between sources erodes confidence in the fused value
	confidence := clamp01((confSum / weightSum) * (1 - 0.25*divergenceScore))

	return &domain.AggregatedSentiment{
		Symbol:             symbol,
		UnifiedSentiment:   unified,
		Confidence:         confidence,
		Level:              a.cfg.Thresholds.LevelFor(unified),
		SourceCount:        len(included),
		ProvidersUsed:      providers,
		SourceBreakdown:    breakdown,
		DivergenceDetected: diverged,
		DivergenceScore:    divergenceScore,
		Timestamp:          now,
	}
}

// weight combines the configured base weight, continuous exponential time
// decay, and an optional mention-count reliability factor
func (a *Aggregator) weight(provider string, src *domain.SourceSentiment, now time.Time) float64 {
	base, ok := a.cfg.ProviderWeights[provider]
	if !ok {
		base = 1.0
	}
	if base == 0 {
		return 0
	}

	age := now.Sub(src.Timestamp)
	if age < 0 {
		age = 0
	}
	decay := math.Exp2(-age.Hours() / a.cfg.DecayHalfLife.Hours())

	reliability := 1.0
	if a.cfg.MentionWeighting {
		reliability = 1 + math.Log10(1+float64(src.MentionCount))/2
	}

	return base * decay * reliability
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
