package confluence

import (
	"math"

	"confluence/internal/adapters/config"
	domain "confluence/internal/domain/confluence"
	"confluence/internal/domain/market_data"
	"confluence/internal/tools/indicators"
	"confluence/pkg/logger"
)

// TechnicalAnalyzer turns a candle history into one bounded technical read.
// Each sub-score is directional in [-1, 1]; indicators without enough history
// simply drop out of the overall score instead of biasing it.
type TechnicalAnalyzer struct {
	cfg config.TechnicalConfig
	log *logger.Logger
}

// NewTechnicalAnalyzer creates a technical analyzer
func NewTechnicalAnalyzer(cfg config.TechnicalConfig) *TechnicalAnalyzer {
	return &TechnicalAnalyzer{
		cfg: cfg,
		log: logger.Get().With("component", "technical_analyzer"),
	}
}

// Analyze computes the technical score for a symbol. Returns nil when the
// series is too short for every indicator: insufficient data, not an error.
func (t *TechnicalAnalyzer) Analyze(symbol string, series market_data.Series) *domain.TechnicalScore {
	if len(series) < 2 {
		return nil
	}

	closes := series.Closes()
	lastClose := series.LastClose()

	result := &domain.TechnicalScore{
		Symbol:     symbol,
		Indicators: map[string]float64{"last_close": lastClose},
	}

	var subScores []float64
	record := func(score float64, assign func(float64)) {
		assign(score)
		subScores = append(subScores, score)
	}

	// RSI: mean-reversion read, oversold leans bullish
	if rsi, ok := indicators.LastDefined(indicators.RSI(closes, t.cfg.RSIPeriod)); ok {
		result.Indicators["rsi"] = rsi
		record(clampScore((50-rsi)/50), func(s float64) { result.RSIScore = s })
	}

	// SMA trend: price above its short and long averages leans bullish
	smaShort, okShort := indicators.LastDefined(indicators.SMA(closes, t.cfg.SMAShortPeriod))
	smaLong, okLong := indicators.LastDefined(indicators.SMA(closes, t.cfg.SMALongPeriod))
	if okShort {
		result.Indicators["sma_short"] = smaShort
	}
	if okLong {
		result.Indicators["sma_long"] = smaLong
	}
	if okShort && smaShort > 0 {
		trend := math.Tanh(10 * (lastClose - smaShort) / smaShort)
		if okLong && smaLong > 0 {
			trend = 0.5*trend + 0.5*math.Tanh(10*(lastClose-smaLong)/smaLong)
		}
		record(clampScore(trend), func(s float64) { result.SMATrendScore = s })
	}

	// OBV slope: accumulation vs distribution over the lookback
	volumes := series.Volumes()
	obv := indicators.OBV(closes, volumes)
	lookback := t.cfg.OBVTrendLookback
	if len(obv) > lookback && lookback > 0 {
		change := obv[len(obv)-1] - obv[len(obv)-1-lookback]
		var recentVol float64
		for _, v := range volumes[len(volumes)-lookback:] {
			recentVol += v
		}
		if recentVol > 0 {
			record(clampScore(math.Tanh(2*change/recentVol)), func(s float64) { result.VolumeScore = s })
		}
	}

	// Bollinger position: near the lower band leans bullish (mean reversion)
	bands := indicators.Bollinger(closes, t.cfg.BollingerPeriod, t.cfg.BollingerStdDev)
	if upper, ok := indicators.LastDefined(bands.Upper); ok {
		lower, _ := indicators.LastDefined(bands.Lower)
		middle, _ := indicators.LastDefined(bands.Middle)
		result.Indicators["bb_upper"] = upper
		result.Indicators["bb_middle"] = middle
		result.Indicators["bb_lower"] = lower

		if width := upper - lower; width > 0 {
			position := (lastClose - lower) / width
			record(clampScore(1-2*position), func(s float64) { result.BollingerScore = s })
		}
	}

	// Volatility context, reported but not scored
	if atr, ok := indicators.LastDefined(indicators.ATR(series.Highs(), series.Lows(), closes, t.cfg.ATRPeriod)); ok {
		result.Indicators["atr"] = atr
	}

	if len(subScores) == 0 {
		return nil
	}

	var sum float64
	for _, s := range subScores {
		sum += s
	}
	result.OverallScore = clampScore(sum / float64(len(subScores)))
	result.Confidence = t.confidence(subScores)

	return result
}

// confidence rewards agreement between sub-scores and coverage across them.
// Indicators pulling in opposite directions produce a low-conviction read.
func (t *TechnicalAnalyzer) confidence(scores []float64) float64 {
	n := float64(len(scores))

	var mean float64
	for _, s := range scores {
		mean += s
	}
	mean /= n

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	stddev := math.Sqrt(variance / n)

	agreement := 1 - math.Min(1, stddev)
	coverage := 0.25 + 0.75*math.Min(1, n/4)

	return clamp01(agreement * coverage)
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
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
