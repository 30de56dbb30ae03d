package binning

import (
	"math"
	"slices"
)

// Percentiles computes each percentile (0-100) of the non-missing values,
// interpolating linearly between the closest ranks. Every result is NaN when
// there are no non-missing values.
func Percentiles(values []float64, pcts []float64) ([]float64, error) {
	for _, p := range pcts {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return nil, ErrPercentileRange
		}
	}
	sorted := nonMissing(values)
	slices.Sort(sorted)

	out := make([]float64, len(pcts))
	for i, p := range pcts {
		out[i] = linearQuantile(sorted, p/100)
	}
	return out, nil
}

// linearQuantile returns the q-quantile (0-1) of sorted data.
func linearQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// evenPercentiles returns n+1 evenly spaced percentiles from 0 to 100.
func evenPercentiles(n int) []float64 {
	out := make([]float64, n+1)
	for i := range out {
		out[i] = 100 * float64(i) / float64(n)
	}
	return out
}
