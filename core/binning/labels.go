package binning

import (
	"math"
	"strconv"
)

// roundTo rounds x to digits decimal places, halves to even.
func roundTo(x float64, digits int) float64 {
	if digits == 0 {
		return math.RoundToEven(x)
	}
	p := math.Pow10(digits)
	return math.RoundToEven(x*p) / p
}

// formatNumber renders x with exactly digits decimal places.
func formatNumber(x float64, digits int) string {
	x = roundTo(x, digits)
	if x == 0 {
		x = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(x, 'f', digits, 64)
}

// MakeLabels builds one range label per adjacent boundary pair.
//
// Boundaries are rounded to digits first. Every label start except the first
// is nudged up, since bins are closed on the right: by 1 when the data is
// integral, otherwise by one unit in the last decimal place. A label whose
// nudged start meets its end names a single value.
func MakeLabels(boundaries []float64, digits int, integral bool) []string {
	if len(boundaries) < 2 {
		return nil
	}
	step := math.Pow10(-digits)
	if integral {
		step = 1
	}
	rounded := make([]float64, len(boundaries))
	for i, b := range boundaries {
		rounded[i] = roundTo(b, digits)
	}

	labels := make([]string, 0, len(rounded)-1)
	for i := 0; i < len(rounded)-1; i++ {
		start, end := rounded[i], rounded[i+1]
		if i > 0 {
			start = roundTo(start+step, digits)
		}
		if start == end {
			labels = append(labels, formatNumber(end, digits))
			continue
		}
		labels = append(labels, formatNumber(start, digits)+"-"+formatNumber(end, digits))
	}
	return labels
}

// integerLabels labels right-closed integer bins as "a+1-b", or "b" when a+1 == b.
func integerLabels(boundaries []float64) []string {
	labels := make([]string, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i]+1, boundaries[i+1]
		if start == end {
			labels = append(labels, formatNumber(end, 0))
			continue
		}
		labels = append(labels, formatNumber(start, 0)+"-"+formatNumber(end, 0))
	}
	return labels
}

// intervalLabels labels bins in interval notation, closed on both ends for the first bin.
func intervalLabels(boundaries []float64) []string {
	labels := make([]string, 0, len(boundaries)-1)
	for i := 0; i < len(boundaries)-1; i++ {
		open := "("
		if i == 0 {
			open = "["
		}
		labels = append(labels, open+formatLiteral(boundaries[i])+", "+formatLiteral(boundaries[i+1])+"]")
	}
	return labels
}
