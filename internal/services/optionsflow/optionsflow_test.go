package optionsflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confluence/internal/domain/derivatives"
)

var flowBase = time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)
var expiry = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

func flowPrint(id, venue string, typ derivatives.OptionType, side derivatives.TradeSide, size int, premium float64, atAsk bool, offset time.Duration) derivatives.FlowPrint {
	return derivatives.FlowPrint{
		ID:        id,
		Symbol:    "AAPL",
		Venue:     venue,
		Type:      typ,
		Side:      side,
		Strike:    200,
		Expiry:    expiry,
		Premium:   premium,
		Size:      size,
		Spot:      198,
		AtAsk:     atAsk,
		Timestamp: flowBase.Add(offset),
	}
}

func TestDetector_EmptyFlow(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())
	assert.Empty(t, d.Classify(nil))
	assert.Empty(t, d.Classify([]derivatives.FlowPrint{}))
}

func TestDetector_SweepCluster(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	flow := []derivatives.FlowPrint{
		flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 50, 40_000, true, 0),
		flowPrint("2", "PHLX", derivatives.OptionCall, derivatives.TradeBuy, 40, 35_000, true, 300*time.Millisecond),
		flowPrint("3", "ISE", derivatives.OptionCall, derivatives.TradeBuy, 60, 45_000, true, 700*time.Millisecond),
		flowPrint("4", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 30, 25_000, false, 1200*time.Millisecond),
	}

	out := d.Classify(flow)
	require.Len(t, out, 4)

	for _, p := range out {
		assert.Equal(t, derivatives.PatternSweep, p.Pattern, "print %s", p.ID)
		assert.Greater(t, p.SweepStrength, 0.0)
		assert.LessOrEqual(t, p.SweepStrength, 1.0)
	}
}

func TestDetector_SingleVenueIsNotSweep(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	flow := []derivatives.FlowPrint{
		flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 50, 40_000, true, 0),
		flowPrint("2", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 40, 35_000, true, 200*time.Millisecond),
		flowPrint("3", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 60, 45_000, true, 500*time.Millisecond),
	}

	for _, p := range d.Classify(flow) {
		assert.Equal(t, derivatives.PatternNone, p.Pattern)
	}
}

func TestDetector_SlowFillsAreNotSweep(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	flow := []derivatives.FlowPrint{
		flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 50, 40_000, true, 0),
		flowPrint("2", "PHLX", derivatives.OptionCall, derivatives.TradeBuy, 40, 35_000, true, 10*time.Second),
		flowPrint("3", "ISE", derivatives.OptionCall, derivatives.TradeBuy, 60, 45_000, true, 25*time.Second),
	}

	for _, p := range d.Classify(flow) {
		assert.Equal(t, derivatives.PatternNone, p.Pattern)
	}
}

func TestDetector_Block(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	flow := []derivatives.FlowPrint{
		flowPrint("big", "CBOE", derivatives.OptionPut, derivatives.TradeBuy, 1200, 2_400_000, false, 0),
		flowPrint("small", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 5, 4_000, true, time.Minute),
	}

	out := d.Classify(flow)
	require.Len(t, out, 2)

	byID := map[string]derivatives.ClassifiedPrint{}
	for _, p := range out {
		byID[p.ID] = p
	}

	assert.Equal(t, derivatives.PatternBlock, byID["big"].Pattern)
	assert.True(t, byID["big"].Unusual)
	assert.Equal(t, derivatives.PatternNone, byID["small"].Pattern)
	assert.False(t, byID["small"].Unusual)
}

func TestDetector_NeverBothSweepAndBlock(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	// Large fills that also form a sweep cluster must classify as sweep only
	flow := []derivatives.FlowPrint{
		flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 600, 1_500_000, true, 0),
		flowPrint("2", "PHLX", derivatives.OptionCall, derivatives.TradeBuy, 700, 1_700_000, true, 400*time.Millisecond),
		flowPrint("3", "ISE", derivatives.OptionCall, derivatives.TradeBuy, 550, 1_400_000, true, 900*time.Millisecond),
	}

	sweeps, blocks := 0, 0
	for _, p := range d.Classify(flow) {
		switch p.Pattern {
		case derivatives.PatternSweep:
			sweeps++
		case derivatives.PatternBlock:
			blocks++
		}
	}
	assert.Equal(t, 3, sweeps)
	assert.Zero(t, blocks)
}

func TestDetector_SweepStrengthGrowsWithFragmentation(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())

	narrow := []derivatives.FlowPrint{
		flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 50, 40_000, true, 0),
		flowPrint("2", "PHLX", derivatives.OptionCall, derivatives.TradeBuy, 40, 35_000, true, 300*time.Millisecond),
		flowPrint("3", "ISE", derivatives.OptionCall, derivatives.TradeBuy, 60, 45_000, true, 700*time.Millisecond),
	}
	wide := append([]derivatives.FlowPrint{}, narrow...)
	wide = append(wide,
		flowPrint("4", "MIAX", derivatives.OptionCall, derivatives.TradeBuy, 45, 38_000, true, 1000*time.Millisecond),
		flowPrint("5", "BOX", derivatives.OptionCall, derivatives.TradeBuy, 55, 42_000, true, 1300*time.Millisecond),
		flowPrint("6", "NOM", derivatives.OptionCall, derivatives.TradeBuy, 35, 30_000, true, 1600*time.Millisecond),
	)

	narrowOut := d.Classify(narrow)
	wideOut := d.Classify(wide)

	require.Equal(t, derivatives.PatternSweep, narrowOut[0].Pattern)
	require.Equal(t, derivatives.PatternSweep, wideOut[0].Pattern)
	assert.Greater(t, wideOut[0].SweepStrength, narrowOut[0].SweepStrength)
}

func TestMetrics_EmptyFlow(t *testing.T) {
	m := NewMetricsCalculator()

	out := m.Calculate("AAPL", nil, nil)
	assert.Zero(t, out.TotalVolume)
	assert.Zero(t, out.TotalPremium)
	assert.Zero(t, out.SweepCount)
	assert.Zero(t, out.BlockCount)
	assert.Zero(t, out.UnusualCount)
	assert.Nil(t, out.VolumeRatio)
	assert.Nil(t, out.PremiumRatio)
	assert.Nil(t, out.OIRatio)
}

func TestMetrics_PutCallRatios(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())
	m := NewMetricsCalculator()

	flow := d.Classify([]derivatives.FlowPrint{
		flowPrint("c1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 100, 100_000, true, 0),
		flowPrint("c2", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 100, 100_000, true, time.Minute),
		flowPrint("p1", "CBOE", derivatives.OptionPut, derivatives.TradeBuy, 100, 300_000, true, 2*time.Minute),
	})

	out := m.Calculate("AAPL", flow, nil)

	require.NotNil(t, out.VolumeRatio)
	assert.InDelta(t, 0.5, *out.VolumeRatio, 1e-9)
	require.NotNil(t, out.PremiumRatio)
	assert.InDelta(t, 1.5, *out.PremiumRatio, 1e-9)
	assert.InDelta(t, 300, out.TotalVolume, 1e-9)
	assert.Equal(t, 1, out.UnusualCount, "the 300k put is unusual")
}

func TestMetrics_DirectionalPercentages(t *testing.T) {
	m := NewMetricsCalculator()

	flow := []derivatives.ClassifiedPrint{
		{FlowPrint: flowPrint("1", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 10, 60_000, true, 0), Pattern: derivatives.PatternNone},  // bullish
		{FlowPrint: flowPrint("2", "CBOE", derivatives.OptionPut, derivatives.TradeSell, 10, 20_000, false, 0), Pattern: derivatives.PatternNone}, // bullish
		{FlowPrint: flowPrint("3", "CBOE", derivatives.OptionPut, derivatives.TradeBuy, 10, 20_000, true, 0), Pattern: derivatives.PatternNone},   // bearish
	}

	out := m.Calculate("AAPL", flow, nil)
	assert.InDelta(t, 80, out.BullishFlowPct, 1e-9)
	assert.InDelta(t, 20, out.BearishFlowPct, 1e-9)
}

func TestMetrics_MalformedPrintsSkipped(t *testing.T) {
	m := NewMetricsCalculator()

	bad := flowPrint("bad", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 0, 50_000, true, 0)
	good := flowPrint("good", "CBOE", derivatives.OptionCall, derivatives.TradeBuy, 10, 10_000, true, 0)

	out := m.Calculate("AAPL", []derivatives.ClassifiedPrint{
		{FlowPrint: bad}, {FlowPrint: good},
	}, nil)

	assert.InDelta(t, 10, out.TotalVolume, 1e-9)
	assert.InDelta(t, 10_000, out.TotalPremium, 1e-9)
}

func TestMetrics_UnknownTypeExcludedFromTotals(t *testing.T) {
	m := NewMetricsCalculator()

	odd := flowPrint("odd", "CBOE", derivatives.OptionType("straddle"), derivatives.TradeBuy, 25, 75_000, true, 0)
	put := flowPrint("put", "PHLX", derivatives.OptionPut, derivatives.TradeBuy, 10, 20_000, true, 0)

	out := m.Calculate("AAPL", []derivatives.ClassifiedPrint{
		{FlowPrint: odd}, {FlowPrint: put},
	}, nil)

	assert.InDelta(t, 10, out.TotalVolume, 1e-9)
	assert.InDelta(t, 20_000, out.TotalPremium, 1e-9)
	assert.InDelta(t, 100, out.BearishFlowPct, 1e-9)
}

func gammaPtr(v float64) *float64 { return &v }

func contract(typ derivatives.OptionType, strike, volume, oi float64, gamma *float64) derivatives.ChainContract {
	return derivatives.ChainContract{
		Symbol:       "AAPL",
		Type:         typ,
		Strike:       strike,
		Expiry:       expiry,
		Volume:       volume,
		OpenInterest: oi,
		Gamma:        gamma,
	}
}

func TestChain_Empty(t *testing.T) {
	a := NewChainAnalyzer(100)

	out := a.Analyze("AAPL", nil)
	assert.Zero(t, out.MaxPain)
	assert.Zero(t, out.GammaExposure)
	assert.Empty(t, out.HighVolumeStrikes)
}

func TestChain_MaxPain(t *testing.T) {
	a := NewChainAnalyzer(100)

	// Heavy OI at 200 on both sides: pinning there minimizes holder payoff
	chain := []derivatives.ChainContract{
		contract(derivatives.OptionCall, 190, 100, 500, nil),
		contract(derivatives.OptionCall, 200, 300, 4000, nil),
		contract(derivatives.OptionCall, 210, 150, 800, nil),
		contract(derivatives.OptionPut, 190, 120, 700, nil),
		contract(derivatives.OptionPut, 200, 280, 3500, nil),
		contract(derivatives.OptionPut, 210, 90, 600, nil),
	}

	out := a.Analyze("AAPL", chain)
	assert.InDelta(t, 200, out.MaxPain, 1e-9)
}

func TestChain_GammaExposureSigned(t *testing.T) {
	a := NewChainAnalyzer(100)

	chain := []derivatives.ChainContract{
		contract(derivatives.OptionCall, 200, 10, 1000, gammaPtr(0.05)), // +0.05*1000*100 = +5000
		contract(derivatives.OptionPut, 200, 10, 400, gammaPtr(0.05)),   // -0.05*400*100 = -2000
		contract(derivatives.OptionCall, 210, 10, 9999, nil),            // missing greeks: zero contribution
	}

	out := a.Analyze("AAPL", chain)
	assert.InDelta(t, 3000, out.GammaExposure, 1e-9)
}

func TestChain_DominanceAndHotStrikes(t *testing.T) {
	a := NewChainAnalyzer(100)

	chain := []derivatives.ChainContract{
		contract(derivatives.OptionCall, 200, 300, 100, nil),
		contract(derivatives.OptionCall, 210, 100, 100, nil),
		contract(derivatives.OptionPut, 200, 100, 100, nil),
	}

	out := a.Analyze("AAPL", chain)
	assert.InDelta(t, 80, out.CallDominancePct, 1e-9)
	assert.InDelta(t, 20, out.PutDominancePct, 1e-9)

	require.Len(t, out.HighVolumeStrikes, 2)
	assert.Equal(t, 200.0, out.HighVolumeStrikes[0].Strike)
	assert.InDelta(t, 400, out.HighVolumeStrikes[0].Volume, 1e-9)
	assert.Equal(t, 210.0, out.HighVolumeStrikes[1].Strike)
}
