package confluence

import (
	"math"
	"time"

	"confluence/internal/adapters/config"
	domain "confluence/internal/domain/confluence"
	sentimentdomain "confluence/internal/domain/sentiment"
	"confluence/pkg/errors"
	"confluence/pkg/logger"
)

// CalculatorConfig tunes the final cross-domain combination
type CalculatorConfig struct {
	TechnicalWeight float64
	SentimentWeight float64
	FlowWeight      float64

	SentimentEnabled bool
	FlowEnabled      bool

	MinConfluence  float64 // |score| gate for an actionable signal
	HighConfluence float64 // |score| gate for a high-conviction signal

	Thresholds sentimentdomain.Thresholds
}

// DefaultCalculatorConfig returns the reference tuning
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		TechnicalWeight:  0.4,
		SentimentWeight:  0.35,
		FlowWeight:       0.25,
		SentimentEnabled: true,
		FlowEnabled:      true,
		MinConfluence:    0.3,
		HighConfluence:   0.6,
		Thresholds:       sentimentdomain.Thresholds{VeryBullish: 0.6, Bullish: 0.2},
	}
}

// CalculatorConfigFrom maps the env-driven sections onto the calculator tuning
func CalculatorConfigFrom(cfg config.ConfluenceConfig, sentiment config.SentimentConfig) CalculatorConfig {
	return CalculatorConfig{
		TechnicalWeight:  cfg.TechnicalWeight,
		SentimentWeight:  cfg.SentimentWeight,
		FlowWeight:       cfg.FlowWeight,
		SentimentEnabled: cfg.SentimentEnabled,
		FlowEnabled:      cfg.FlowEnabled,
		MinConfluence:    cfg.MinConfluence,
		HighConfluence:   cfg.HighConfluence,
		Thresholds: sentimentdomain.Thresholds{
			VeryBullish: sentiment.VeryBullishCutoff,
			Bullish:     sentiment.BullishCutoff,
		},
	}
}

// Validate rejects a non-normalizable weight set at construction time
func (c CalculatorConfig) Validate() error {
	if c.TechnicalWeight < 0 || c.SentimentWeight < 0 || c.FlowWeight < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "component weights must be >= 0")
	}
	if c.TechnicalWeight+c.SentimentWeight+c.FlowWeight == 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "at least one component weight must be > 0")
	}
	if c.MinConfluence < 0 || c.HighConfluence <= c.MinConfluence {
		return errors.Wrap(errors.ErrInvalidConfig, "thresholds must satisfy 0 <= min < high")
	}
	return nil
}

// Inputs carries the per-component reads available for one symbol. Nil
// members are simply absent; the calculator renormalizes around them.
type Inputs struct {
	Technical *domain.TechnicalScore
	Sentiment *sentimentdomain.AggregatedSentiment
	Flow      *FlowSignal
}

// Calculator combines the available component sub-scores into the terminal
// confluence score. It is pure: safe for concurrent use without locking.
type Calculator struct {
	cfg CalculatorConfig
	log *logger.Logger

	now func() time.Time
}

// NewCalculator creates a calculator, rejecting invalid weights eagerly
func NewCalculator(cfg CalculatorConfig) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		cfg: cfg,
		log: logger.Get().With("component", "confluence_calculator"),
		now: time.Now,
	}, nil
}

// Calculate fuses whatever components are available. Weights renormalize over
// the present components only, so a missing component never drags the score
// toward zero. Returns nil when no component is available at all.
func (c *Calculator) Calculate(symbol string, in Inputs) *domain.ConfluenceScore {
	type component struct {
		name       string
		score      float64
		confidence float64
		weight     float64
	}

	var components []component

	if in.Technical != nil {
		components = append(components, component{
			name:       domain.ComponentTechnical,
			score:      in.Technical.OverallScore,
			confidence: in.Technical.Confidence,
			weight:     c.cfg.TechnicalWeight,
		})
	}
	if c.cfg.SentimentEnabled && in.Sentiment != nil {
		components = append(components, component{
			name:       domain.ComponentSentiment,
			score:      clampScore(in.Sentiment.UnifiedSentiment),
			confidence: in.Sentiment.Confidence,
			weight:     c.cfg.SentimentWeight,
		})
	}
	if c.cfg.FlowEnabled && in.Flow != nil {
		components = append(components, component{
			name:       domain.ComponentFlow,
			score:      in.Flow.Score,
			confidence: in.Flow.Confidence,
			weight:     c.cfg.FlowWeight,
		})
	}

	var weightSum float64
	for _, comp := range components {
		weightSum += comp.weight
	}
	if weightSum == 0 {
		return nil
	}

	var score, confidence float64
	used := make([]string, 0, len(components))
	contributions := make(map[string]float64, len(components))

	for _, comp := range components {
		w := comp.weight / weightSum
		if w == 0 {
			continue
		}
		score += w * comp.score
		confidence += w * comp.confidence
		used = append(used, comp.name)
		contributions[comp.name] = 100 * w
	}

	if len(used) == 0 {
		return nil
	}

	score = clampScore(score)
	magnitude := math.Abs(score)

	return &domain.ConfluenceScore{
		Symbol:                symbol,
		Score:                 score,
		DirectionalBias:       score,
		Level:                 c.cfg.Thresholds.LevelFor(score),
		Confidence:            clamp01(confidence),
		ComponentsUsed:        used,
		Contributions:         contributions,
		MeetsMinimumThreshold: magnitude >= c.cfg.MinConfluence,
		MeetsHighThreshold:    magnitude >= c.cfg.HighConfluence,
		Timestamp:             c.now().UTC(),
	}
}
