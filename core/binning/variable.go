// Package binning discretizes numeric variables into ordered categoricals.
//
// Missing values are represented as NaN throughout. Inputs are never
// modified; every operation returns freshly allocated slices.
package binning

import (
	"math"
	"slices"
)

// Variable is a named numeric column. NaN marks a missing value.
type Variable struct {
	Name   string
	Values []float64
}

// NewVariable creates a Variable that owns a copy of values.
func NewVariable(name string, values []float64) Variable {
	return Variable{Name: name, Values: slices.Clone(values)}
}

// Len returns the number of records.
func (v Variable) Len() int {
	return len(v.Values)
}

// NormalizeExceptions returns the unique exception values in ascending order, NaN removed.
func NormalizeExceptions(exceptions []float64) []float64 {
	out := make([]float64, 0, len(exceptions))
	for _, e := range exceptions {
		if !math.IsNaN(e) {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// isException reports whether x is one of the sorted exception values.
func isException(x float64, sortedExceptions []float64) bool {
	_, found := slices.BinarySearch(sortedExceptions, x)
	return found
}

// maskExceptions returns a copy of values with every exception replaced by NaN.
func maskExceptions(values, sortedExceptions []float64) []float64 {
	out := slices.Clone(values)
	if len(sortedExceptions) == 0 {
		return out
	}
	for i, x := range out {
		if isException(x, sortedExceptions) {
			out[i] = math.NaN()
		}
	}
	return out
}

// nonMissing returns the non-NaN values of xs in their original order.
func nonMissing(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// AllIntegers reports whether every non-missing value is integral.
// An empty or all-missing input counts as integral.
func AllIntegers(values []float64) bool {
	for _, x := range values {
		if math.IsNaN(x) {
			continue
		}
		if math.IsInf(x, 0) || x != math.Trunc(x) {
			return false
		}
	}
	return true
}

// minMax returns the extremes of the non-missing values; ok is false when none exist.
func minMax(values []float64) (lo, hi float64, ok bool) {
	for _, x := range values {
		if math.IsNaN(x) {
			continue
		}
		if !ok {
			lo, hi, ok = x, x, true
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi, ok
}

// uniqueSorted drops NaN, sorts ascending and collapses duplicates.
func uniqueSorted(xs []float64) []float64 {
	out := nonMissing(xs)
	slices.Sort(out)
	return slices.Compact(out)
}
