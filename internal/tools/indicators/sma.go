package indicators

import "github.com/markcheno/go-talib"

// SMA computes a simple moving average. The first window-1 positions are
// undefined; a window larger than the series leaves every position undefined.
func SMA(series []float64, window int) []float64 {
	if len(series) == 0 {
		return []float64{}
	}
	if window < 1 || window > len(series) {
		return undefinedSeries(len(series))
	}
	return maskWarmup(talib.Sma(series, window), window-1)
}
