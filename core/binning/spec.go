package binning

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SpecKind discriminates the BinSpec union.
type SpecKind int

// Kinds of bin specification.
const (
	SpecCount SpecKind = iota + 1 // auto-binning into N quantile bins
	SpecCuts                      // explicit cut points
)

// BinSpec is either a bin count or an explicit list of cut points.
type BinSpec struct {
	Kind  SpecKind
	Count int
	Cuts  []float64
}

// BinCount requests n quantile-based bins.
func BinCount(n int) BinSpec {
	return BinSpec{Kind: SpecCount, Count: n}
}

// BinCuts requests bins at explicit cut points.
func BinCuts(cuts ...float64) BinSpec {
	return BinSpec{Kind: SpecCuts, Cuts: slices.Clone(cuts)}
}

// Validate checks the spec is usable.
func (s BinSpec) Validate() error {
	switch s.Kind {
	case SpecCount:
		if s.Count < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidBinCount, s.Count)
		}
		return nil
	case SpecCuts:
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidSpec, s.Kind)
	}
}

func (s BinSpec) String() string {
	switch s.Kind {
	case SpecCount:
		return strconv.Itoa(s.Count)
	case SpecCuts:
		parts := make([]string, len(s.Cuts))
		for i, c := range s.Cuts {
			parts[i] = formatLiteral(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "invalid"
	}
}

// ParseBinSpec reads "5" as a bin count and "1,22,50" as cut points.
// A single number always means a count; a trailing comma ("25,") forces a
// single cut point.
func ParseBinSpec(s string) (BinSpec, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ",") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return BinSpec{}, fmt.Errorf("%w: bin count %q is not an integer", ErrInvalidSpec, s)
		}
		spec := BinCount(n)
		return spec, spec.Validate()
	}
	var cuts []float64
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		x, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return BinSpec{}, fmt.Errorf("%w: cut point %q is not a number", ErrInvalidSpec, part)
		}
		cuts = append(cuts, x)
	}
	return BinCuts(cuts...), nil
}
