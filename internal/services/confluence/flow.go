package confluence

import (
	"math"

	"confluence/internal/domain/derivatives"
)

// FlowSignal is the options-flow component of the confluence score
type FlowSignal struct {
	Score      float64 // [-1, 1]
	Confidence float64 // [0, 1]
}

// FlowSignalFrom condenses flow metrics and an optional chain analysis into
// one directional sub-score. Returns nil when nothing traded: an absent
// component, not a neutral one.
func FlowSignalFrom(metrics derivatives.OptionsFlowMetrics, chain *derivatives.ChainAnalysis) *FlowSignal {
	if metrics.TotalVolume <= 0 {
		return nil
	}

	// Directional premium split is the primary read
	base := (metrics.BullishFlowPct - metrics.BearishFlowPct) / 100

	// Put/call premium ratio tilts the read: below 1 leans bullish
	tilt := 0.0
	if metrics.PremiumRatio != nil && *metrics.PremiumRatio > 0 {
		tilt = math.Tanh(-math.Log(*metrics.PremiumRatio))
	}

	// Sweeps are conviction: they push the score further in its own direction
	sweepBias := 0.0
	if base != 0 {
		sweepBias = math.Copysign(math.Min(1, float64(metrics.SweepCount)/5), base)
	}

	score := 0.6*base + 0.25*tilt + 0.15*sweepBias

	if chain != nil {
		dominance := (chain.CallDominancePct - chain.PutDominancePct) / 100
		score = 0.85*score + 0.15*dominance
	}

	// Conviction grows with traded volume and unusual activity, saturating
	volumeFactor := math.Min(1, math.Log10(1+metrics.TotalVolume)/4)
	patternFactor := math.Min(1, float64(metrics.SweepCount+metrics.BlockCount)/5)
	unusualFactor := math.Min(1, float64(metrics.UnusualCount)/10)
	confidence := clamp01(0.5*volumeFactor + 0.3*patternFactor + 0.2*unusualFactor)

	return &FlowSignal{Score: clampScore(score), Confidence: confidence}
}
