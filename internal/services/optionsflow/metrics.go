package optionsflow

import (
	"confluence/internal/domain/derivatives"
)

// MetricsCalculator aggregates a classified flow list into put/call ratios,
// directional percentages and pattern counts. Pure and stateless.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate folds classified prints into flow metrics. An empty or fully
// malformed list yields zeroed metrics with nil ratios, never an error.
// The chain is optional; without it the open-interest ratio stays nil.
func (m *MetricsCalculator) Calculate(symbol string, flow []derivatives.ClassifiedPrint, chain []derivatives.ChainContract) derivatives.OptionsFlowMetrics {
	out := derivatives.OptionsFlowMetrics{Symbol: symbol}

	var callVol, putVol, callPrem, putPrem float64
	var bullishPrem, bearishPrem float64

	for _, p := range flow {
		if p.Size <= 0 || p.Premium < 0 ||
			(p.Type != derivatives.OptionCall && p.Type != derivatives.OptionPut) {
			continue // malformed print: skipped, never aborts the batch
		}

		vol := float64(p.Size)
		out.TotalVolume += vol
		out.TotalPremium += p.Premium

		switch p.Type {
		case derivatives.OptionCall:
			callVol += vol
			callPrem += p.Premium
		case derivatives.OptionPut:
			putVol += vol
			putPrem += p.Premium
		}

		if p.Bullish() {
			bullishPrem += p.Premium
		} else if p.Bearish() {
			bearishPrem += p.Premium
		}

		if p.Unusual {
			out.UnusualCount++
		}
		switch p.Pattern {
		case derivatives.PatternSweep:
			out.SweepCount++
		case derivatives.PatternBlock:
			out.BlockCount++
		}
	}

	if callVol > 0 {
		ratio := putVol / callVol
		out.VolumeRatio = &ratio
	}
	if callPrem > 0 {
		ratio := putPrem / callPrem
		out.PremiumRatio = &ratio
	}
	if out.TotalPremium > 0 {
		out.BullishFlowPct = 100 * bullishPrem / out.TotalPremium
		out.BearishFlowPct = 100 * bearishPrem / out.TotalPremium
	}

	if len(chain) > 0 {
		var callOI, putOI float64
		for _, c := range chain {
			switch c.Type {
			case derivatives.OptionCall:
				callOI += c.OpenInterest
			case derivatives.OptionPut:
				putOI += c.OpenInterest
			}
		}
		if callOI > 0 {
			ratio := putOI / callOI
			out.OIRatio = &ratio
		}
	}

	return out
}
