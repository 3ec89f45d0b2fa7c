package indicators

import "github.com/markcheno/go-talib"

// ATR computes the Wilder average true range. It is strictly positive
// wherever defined as long as the underlying range is non-degenerate.
func ATR(high, low, close []float64, window int) []float64 {
	if len(close) == 0 || len(high) != len(close) || len(low) != len(close) {
		return []float64{}
	}
	if window < 1 || window >= len(close) {
		return undefinedSeries(len(close))
	}
	return maskWarmup(talib.Atr(high, low, close, window), window)
}
