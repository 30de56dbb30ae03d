package binning

import "math"

// CleanCuts snaps each boundary at or above threshold to the nearest multiple of divisor.
// A remainder below half the divisor rounds down, otherwise up. Smaller
// boundaries pass through unchanged.
func CleanCuts(boundaries []float64, divisor, threshold float64) ([]float64, error) {
	if !(divisor > 0) {
		return nil, ErrInvalidDivisor
	}
	out := make([]float64, len(boundaries))
	for i, b := range boundaries {
		if math.IsNaN(b) || b < threshold {
			out[i] = b
			continue
		}
		rem := floorMod(b, divisor)
		if rem < divisor/2 {
			out[i] = b - rem
		} else {
			out[i] = b + (divisor - rem)
		}
	}
	return out, nil
}

// floorMod returns the remainder of x/d carrying the sign of d.
func floorMod(x, d float64) float64 {
	m := math.Mod(x, d)
	if m != 0 && (m < 0) != (d < 0) {
		m += d
	}
	return m
}
