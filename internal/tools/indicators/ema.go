package indicators

import "github.com/markcheno/go-talib"

// EMA computes an exponential moving average seeded from the SMA of the first
// window values. Early positions without enough history are undefined.
func EMA(series []float64, window int) []float64 {
	if len(series) == 0 {
		return []float64{}
	}
	if window < 1 || window > len(series) {
		return undefinedSeries(len(series))
	}
	return maskWarmup(talib.Ema(series, window), window-1)
}
