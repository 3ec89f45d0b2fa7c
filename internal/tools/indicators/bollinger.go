package indicators

import "github.com/markcheno/go-talib"

// BollingerBands holds the three bands, index-aligned with the input series.
// Wherever defined, Upper >= Middle >= Lower, and band width grows with numStd.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes volatility bands around an SMA midline
func Bollinger(series []float64, window int, numStd float64) BollingerBands {
	if len(series) == 0 {
		return BollingerBands{Upper: []float64{}, Middle: []float64{}, Lower: []float64{}}
	}
	if window < 2 || window > len(series) || numStd < 0 {
		return BollingerBands{
			Upper:  undefinedSeries(len(series)),
			Middle: undefinedSeries(len(series)),
			Lower:  undefinedSeries(len(series)),
		}
	}
	upper, middle, lower := talib.BBands(series, window, numStd, numStd, talib.SMA)
	return BollingerBands{
		Upper:  maskWarmup(upper, window-1),
		Middle: maskWarmup(middle, window-1),
		Lower:  maskWarmup(lower, window-1),
	}
}
