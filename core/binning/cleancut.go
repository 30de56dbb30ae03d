package binning

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// Position places a block of pseudo-categories relative to the regular bins.
type Position string

// Supported positions.
const (
	First Position = "first"
	Last  Position = "last"
)

// ParsePosition converts "first" or "last" to a Position.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case First, Last:
		return p, nil
	default:
		return "", fmt.Errorf("binning: invalid position %q (expected first or last)", s)
	}
}

// DefaultMissingLabel is the category assigned to missing records.
const DefaultMissingLabel = "Missing"

// CutOptions tunes CleanCut. The zero value of a Position field means its default.
type CutOptions struct {
	Exceptions         []float64
	ExceptionsPosition Position // default Last
	Missing            *string  // nil leaves missing records null
	MissingPosition    Position // default First
	Digits             int
	CleanCuts          bool
	CutsDivisor        float64
	CutsThreshold      float64
	Logger             *slog.Logger
}

// DefaultCutOptions returns the standard options: missing records labelled
// "Missing" and placed first, exceptions last, whole-number labels.
func DefaultCutOptions() CutOptions {
	missing := DefaultMissingLabel
	return CutOptions{
		ExceptionsPosition: Last,
		Missing:            &missing,
		MissingPosition:    First,
		CutsDivisor:        5,
		CutsThreshold:      10,
	}
}

// MissingLabel returns a pointer to label for use as CutOptions.Missing.
func MissingLabel(label string) *string {
	return &label
}

// CleanCut discretizes v into labelled bins that cover every non-missing,
// non-exception value, then re-inserts exceptions and missing records as
// their own categories.
func CleanCut(v Variable, spec BinSpec, opts CutOptions) (*Categorical, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if opts.Digits < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDigits, opts.Digits)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	excs := NormalizeExceptions(opts.Exceptions)
	working := maskExceptions(v.Values, excs)

	var cuts []float64
	switch spec.Kind {
	case SpecCount:
		qs, err := Percentiles(working, evenPercentiles(spec.Count))
		if err != nil {
			return nil, err
		}
		for _, q := range qs {
			cuts = append(cuts, math.RoundToEven(q))
		}
	case SpecCuts:
		cuts = slices.Clone(spec.Cuts)
	}

	if opts.CleanCuts {
		cleaned, err := CleanCuts(cuts, opts.CutsDivisor, opts.CutsThreshold)
		if err != nil {
			return nil, err
		}
		cuts = cleaned
	}

	if lo, hi, ok := minMax(working); ok {
		cuts = append(cuts, lo, hi)
	}
	bounds := uniqueSorted(cuts)
	for i, b := range bounds {
		bounds[i] = roundTo(b, opts.Digits)
	}
	bounds = slices.Compact(bounds)

	for _, e := range excs {
		if _, found := slices.BinarySearch(bounds, e); found {
			logger.Warn("boundary coincides with exception value", "variable", v.Name, "value", e)
		}
	}

	var labels []string
	if len(bounds) == 1 {
		labels = []string{formatNumber(bounds[0], opts.Digits)}
	} else {
		labels = MakeLabels(bounds, opts.Digits, AllIntegers(working))
	}
	cat := &Categorical{
		Name:       v.Name,
		Categories: labels,
		Codes:      partition(working, bounds, true),
	}
	regular := len(cat.Categories)

	carveExceptions(cat, v.Values, excs)
	exceptionCount := len(cat.Categories) - regular

	missingCount := 0
	if opts.Missing != nil {
		code, err := cat.addCategory(*opts.Missing)
		if err != nil {
			return nil, err
		}
		for i, x := range v.Values {
			if math.IsNaN(x) {
				cat.Codes[i] = code
			}
		}
		missingCount = 1
	}

	cat.reorder(blockOrder(regular, exceptionCount, missingCount, opts.ExceptionsPosition, opts.MissingPosition))
	return cat, nil
}

// blockOrder lays out the regular, exception and missing blocks. Blocks that
// share an end keep exceptions ahead of missing.
func blockOrder(regular, exceptions, missing int, excPos, missPos Position) []int {
	if excPos == "" {
		excPos = Last
	}
	if missPos == "" {
		missPos = First
	}
	span := func(start, n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = start + i
		}
		return out
	}
	regularBlock := span(0, regular)
	excBlock := span(regular, exceptions)
	missBlock := span(regular+exceptions, missing)

	var front, back []int
	if excPos == First {
		front = append(front, excBlock...)
	} else {
		back = append(back, excBlock...)
	}
	if missPos == First {
		front = append(front, missBlock...)
	} else {
		back = append(back, missBlock...)
	}

	order := make([]int, 0, regular+exceptions+missing)
	order = append(order, front...)
	order = append(order, regularBlock...)
	return append(order, back...)
}
