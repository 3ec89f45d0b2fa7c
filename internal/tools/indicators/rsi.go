package indicators

import "github.com/markcheno/go-talib"

// RSI computes the Wilder relative strength index. Defined outputs are
// clamped to [0, 100]; the bound is enforced, not just observed.
func RSI(series []float64, window int) []float64 {
	if len(series) == 0 {
		return []float64{}
	}
	if window < 1 || window >= len(series) {
		return undefinedSeries(len(series))
	}
	out := maskWarmup(talib.Rsi(series, window), window)
	for i := range out {
		out[i] = clamp(out[i], 0, 100)
	}
	return out
}
