package binning

import (
	"fmt"
	"math"
	"slices"
)

// Breaks partitions v at the given boundaries.
//
// Bins are closed on the right with the lowest boundary inclusive; values
// outside the boundary range are null. Labels read "a+1-b" when both data and
// boundaries are integral, otherwise interval notation is used. Each declared
// exception becomes a trailing category named by its literal value.
func Breaks(v Variable, boundaries []float64, exceptions []float64) (*Categorical, error) {
	excs := NormalizeExceptions(exceptions)
	bounds := uniqueSorted(boundaries)
	for _, e := range excs {
		if _, found := slices.BinarySearch(bounds, e); found {
			return nil, fmt.Errorf("%w: %v", ErrExceptionBoundary, e)
		}
	}

	cat := &Categorical{
		Name:       v.Name,
		Categories: breakLabels(v.Values, excs, bounds),
		Codes:      partition(v.Values, bounds, false),
	}
	carveExceptions(cat, v.Values, excs)
	return cat, nil
}

// Bins partitions v into n even-population bins using percentile boundaries.
func Bins(v Variable, n int, exceptions []float64) (*Categorical, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBinCount, n)
	}
	return Percentile(v, evenPercentiles(n), exceptions)
}

// Percentile partitions v at the given percentiles of its non-missing,
// non-exception values. The 0th and 100th percentiles are always included.
func Percentile(v Variable, pcts []float64, exceptions []float64) (*Categorical, error) {
	withEnds := append([]float64{0}, pcts...)
	withEnds = append(withEnds, 100)
	excs := NormalizeExceptions(exceptions)
	bounds, err := Percentiles(maskExceptions(v.Values, excs), withEnds)
	if err != nil {
		return nil, err
	}
	return Breaks(v, bounds, excs)
}

// breakLabels chooses the label style for Breaks.
func breakLabels(values, excs, bounds []float64) []string {
	switch len(bounds) {
	case 0:
		return nil
	case 1:
		return []string{formatLiteral(bounds[0])}
	}
	if AllIntegers(maskExceptions(values, excs)) && AllIntegers(bounds) {
		return integerLabels(bounds)
	}
	return intervalLabels(bounds)
}

// partition assigns each value the index of its right-closed bin, the lowest
// boundary inclusive. With clamp set, values beyond either end fall into the
// nearest edge bin instead of null. A single boundary forms one bin.
func partition(values, bounds []float64, clamp bool) []int {
	codes := make([]int, len(values))
	last := len(bounds) - 2
	for i, x := range values {
		codes[i] = NullCode
		if math.IsNaN(x) || len(bounds) == 0 {
			continue
		}
		if len(bounds) == 1 {
			if clamp || x == bounds[0] {
				codes[i] = 0
			}
			continue
		}
		switch {
		case x < bounds[0]:
			if clamp {
				codes[i] = 0
			}
		case x > bounds[len(bounds)-1]:
			if clamp {
				codes[i] = last
			}
		case x == bounds[0]:
			codes[i] = 0
		default:
			// first index with bounds[idx] >= x; x falls in (bounds[idx-1], bounds[idx]]
			idx, _ := slices.BinarySearch(bounds, x)
			codes[i] = idx - 1
		}
	}
	return codes
}

// carveExceptions appends one category per exception and moves matching records into it.
// Exception categories are tracked by code, so one may read the same as a
// single-value regular bin.
func carveExceptions(cat *Categorical, values, excs []float64) {
	for _, e := range excs {
		code := cat.appendCategory(formatLiteral(e))
		for i, x := range values {
			if x == e {
				cat.Codes[i] = code
			}
		}
	}
}
