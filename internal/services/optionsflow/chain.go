package optionsflow

import (
	"sort"

	"confluence/internal/domain/derivatives"
)

// ChainAnalyzer derives market-structure metrics from an options chain
// snapshot: max pain, gamma exposure, type dominance and volume hot spots.
type ChainAnalyzer struct {
	contractMultiplier float64
}

// NewChainAnalyzer creates a chain analyzer. The multiplier is the number of
// underlying units per contract (100 for US equity options).
func NewChainAnalyzer(contractMultiplier float64) *ChainAnalyzer {
	if contractMultiplier <= 0 {
		contractMultiplier = 100
	}
	return &ChainAnalyzer{contractMultiplier: contractMultiplier}
}

// Analyze computes chain-level metrics. An empty chain yields a zeroed
// analysis, never an error.
func (a *ChainAnalyzer) Analyze(symbol string, chain []derivatives.ChainContract) derivatives.ChainAnalysis {
	out := derivatives.ChainAnalysis{Symbol: symbol, HighVolumeStrikes: []derivatives.StrikeVolume{}}
	if len(chain) == 0 {
		return out
	}

	out.MaxPain = a.maxPain(chain)
	out.GammaExposure = a.gammaExposure(chain)

	var callVol, putVol float64
	strikeVol := make(map[float64]float64)
	for _, c := range chain {
		switch c.Type {
		case derivatives.OptionCall:
			callVol += c.Volume
		case derivatives.OptionPut:
			putVol += c.Volume
		}
		strikeVol[c.Strike] += c.Volume
	}

	total := callVol + putVol
	if total > 0 {
		out.CallDominancePct = 100 * callVol / total
		out.PutDominancePct = 100 * putVol / total
	}

	for strike, vol := range strikeVol {
		out.HighVolumeStrikes = append(out.HighVolumeStrikes, derivatives.StrikeVolume{Strike: strike, Volume: vol})
	}
	sort.Slice(out.HighVolumeStrikes, func(i, j int) bool {
		if out.HighVolumeStrikes[i].Volume != out.HighVolumeStrikes[j].Volume {
			return out.HighVolumeStrikes[i].Volume > out.HighVolumeStrikes[j].Volume
		}
		return out.HighVolumeStrikes[i].Strike < out.HighVolumeStrikes[j].Strike
	})

	return out
}

// maxPain finds the expiry price that minimizes aggregate option-holder
// payoff across the chain: at that strike the most open contracts expire
// worthless.
func (a *ChainAnalyzer) maxPain(chain []derivatives.ChainContract) float64 {
	strikes := make([]float64, 0, len(chain))
	seen := make(map[float64]struct{})
	for _, c := range chain {
		if _, ok := seen[c.Strike]; ok {
			continue
		}
		seen[c.Strike] = struct{}{}
		strikes = append(strikes, c.Strike)
	}
	sort.Float64s(strikes)

	best := strikes[0]
	bestPayout := -1.0

	for _, candidate := range strikes {
		payout := 0.0
		for _, c := range chain {
			switch c.Type {
			case derivatives.OptionCall:
				if candidate > c.Strike {
					payout += (candidate - c.Strike) * c.OpenInterest * a.contractMultiplier
				}
			case derivatives.OptionPut:
				if candidate < c.Strike {
					payout += (c.Strike - candidate) * c.OpenInterest * a.contractMultiplier
				}
			}
		}
		if bestPayout < 0 || payout < bestPayout {
			bestPayout = payout
			best = candidate
		}
	}

	return best
}

// gammaExposure sums gamma x open interest x multiplier, calls positive and
// puts negative. Contracts with missing greeks contribute zero rather than
// failing the whole computation.
func (a *ChainAnalyzer) gammaExposure(chain []derivatives.ChainContract) float64 {
	total := 0.0
	for _, c := range chain {
		if c.Gamma == nil {
			continue
		}
		exposure := *c.Gamma * c.OpenInterest * a.contractMultiplier
		if c.Type == derivatives.OptionPut {
			exposure = -exposure
		}
		total += exposure
	}
	return total
}
