package indicators

import "github.com/markcheno/go-talib"

// OBV computes on-balance volume: a running sum seeded from the first volume
// that adds volume on up-closes and subtracts it on down-closes.
func OBV(prices, volumes []float64) []float64 {
	if len(prices) == 0 || len(volumes) != len(prices) {
		return []float64{}
	}
	return talib.Obv(prices, volumes)
}
