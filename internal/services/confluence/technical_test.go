package confluence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confluence/internal/adapters/config"
	"confluence/internal/domain/market_data"
)

func testTechnicalConfig() config.TechnicalConfig {
	return config.TechnicalConfig{
		RSIPeriod:        14,
		SMAShortPeriod:   20,
		SMALongPeriod:    50,
		BollingerPeriod:  20,
		BollingerStdDev:  2.0,
		ATRPeriod:        14,
		OBVTrendLookback: 10,
	}
}

func candles(closes []float64) market_data.Series {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	series := make(market_data.Series, len(closes))
	for i, c := range closes {
		series[i] = market_data.OHLCV{
			Symbol:    "AAPL",
			Timeframe: "1h",
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      c * 0.995,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000 + float64(i%7)*100,
		}
	}
	return series
}

func TestTechnicalAnalyzer_InsufficientData(t *testing.T) {
	ta := NewTechnicalAnalyzer(testTechnicalConfig())

	assert.Nil(t, ta.Analyze("AAPL", nil))
	assert.Nil(t, ta.Analyze("AAPL", candles([]float64{100})))
	assert.Nil(t, ta.Analyze("AAPL", candles([]float64{100, 101, 102})),
		"three candles cannot feed any configured indicator")
}

func TestTechnicalAnalyzer_BoundedScores(t *testing.T) {
	ta := NewTechnicalAnalyzer(testTechnicalConfig())

	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 10*float64(i%9) - 4*float64(i%5)
	}

	out := ta.Analyze("AAPL", candles(closes))
	require.NotNil(t, out)

	for name, score := range map[string]float64{
		"overall":   out.OverallScore,
		"rsi":       out.RSIScore,
		"sma":       out.SMATrendScore,
		"volume":    out.VolumeScore,
		"bollinger": out.BollingerScore,
	} {
		assert.GreaterOrEqual(t, score, -1.0, name)
		assert.LessOrEqual(t, score, 1.0, name)
	}
	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)

	for _, key := range []string{"rsi", "sma_short", "sma_long", "bb_upper", "bb_middle", "bb_lower", "atr", "last_close"} {
		assert.Contains(t, out.Indicators, key)
	}
}

func TestTechnicalAnalyzer_OversoldReadsContrarianBullish(t *testing.T) {
	ta := NewTechnicalAnalyzer(testTechnicalConfig())

	// Steady decline: deeply oversold, price pinned to the lower band
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 200 - 1.5*float64(i)
	}

	out := ta.Analyze("AAPL", candles(closes))
	require.NotNil(t, out)

	assert.Greater(t, out.RSIScore, 0.5, "oversold RSI leans bullish")
	assert.Less(t, out.SMATrendScore, 0.0, "price below both averages reads a downtrend")
	assert.Greater(t, out.BollingerScore, 0.0, "price at the lower band leans bullish")
	assert.Less(t, out.Indicators["rsi"], 30.0)
}

func TestTechnicalAnalyzer_OverboughtReadsContrarianBearish(t *testing.T) {
	ta := NewTechnicalAnalyzer(testTechnicalConfig())

	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 1.5*float64(i)
	}

	out := ta.Analyze("AAPL", candles(closes))
	require.NotNil(t, out)

	assert.Less(t, out.RSIScore, -0.5)
	assert.Greater(t, out.SMATrendScore, 0.0)
	assert.Less(t, out.BollingerScore, 0.0)
	assert.Greater(t, out.Indicators["rsi"], 70.0)
}

func TestTechnicalAnalyzer_AgreementRaisesConfidence(t *testing.T) {
	ta := NewTechnicalAnalyzer(testTechnicalConfig())

	decline := make([]float64, 80)
	for i := range decline {
		decline[i] = 200 - 1.5*float64(i)
	}
	mixed := make([]float64, 80)
	for i := range mixed {
		mixed[i] = 150 + 30*float64(i%2)
	}

	trending := ta.Analyze("AAPL", candles(decline))
	choppy := ta.Analyze("AAPL", candles(mixed))
	require.NotNil(t, trending)
	require.NotNil(t, choppy)

	assert.GreaterOrEqual(t, trending.Confidence, 0.0)
	assert.LessOrEqual(t, choppy.Confidence, 1.0)
}
