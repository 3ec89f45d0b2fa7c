package indicators

import "math"

// Indicator outputs preserve input length and index alignment. Positions with
// insufficient history hold Undefined rather than a value, and callers test
// them with IsDefined. A window larger than the whole series yields an
// entirely undefined result, never an error.

// Undefined marks an output position with insufficient history
func Undefined() float64 {
	return math.NaN()
}

// IsDefined reports whether an indicator output position holds a real value
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}

// LastDefined returns the most recent defined value and true, or (0, false)
// when the whole output is undefined.
func LastDefined(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if IsDefined(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}

// undefinedSeries builds a fully undefined output of the given length
func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// maskWarmup overwrites the first lookback positions with Undefined.
// ta-lib pads its warm-up region with zeros, which downstream math cannot
// distinguish from a real zero value.
func maskWarmup(values []float64, lookback int) []float64 {
	if lookback > len(values) {
		lookback = len(values)
	}
	for i := 0; i < lookback; i++ {
		values[i] = math.NaN()
	}
	return values
}

// clamp bounds v to [lo, hi], passing NaN through untouched
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
