// Package tables builds frequency and bivariate summary tables over binned variables.
package tables

import (
	"errors"
	"fmt"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
)

// Errors returned by table builders.
var (
	ErrMissingBreakArgs   = errors.New("tables: break arguments required for predefined break method")
	ErrUnknownBreakMethod = errors.New("tables: unknown break method")
	ErrLengthMismatch     = errors.New("tables: column lengths differ")
)

// BreakFunc is a user-supplied binning strategy.
type BreakFunc func(v binning.Variable, exceptions []float64) (*binning.Categorical, error)

// BreakArgs carries the parameters of a predefined break method.
// Count is used by bins and cleancut; Values by percentiles, breaks and cleancut.
type BreakArgs struct {
	Count  int
	Values []float64
	Cut    binning.CutOptions // cleancut only; Exceptions is taken from the Breaker
}

// Breaker bins a variable with a predefined method or a custom function.
type Breaker struct {
	Method     schema.BreakMethod
	Args       BreakArgs
	Exceptions []float64
	Custom     BreakFunc // takes precedence over Method
}

// Apply bins v. The none method keeps one category per distinct value.
func (b Breaker) Apply(v binning.Variable) (*binning.Categorical, error) {
	if b.Custom != nil {
		return b.Custom(v, b.Exceptions)
	}

	switch b.Method {
	case "", schema.NoBreak:
		return binning.FromValues(v), nil
	case schema.BinsBreak:
		if b.Args.Count == 0 {
			return nil, fmt.Errorf("%w: %s needs a bin count", ErrMissingBreakArgs, b.Method)
		}
		return binning.Bins(v, b.Args.Count, b.Exceptions)
	case schema.PercentileBreak:
		if len(b.Args.Values) == 0 {
			return nil, fmt.Errorf("%w: %s needs percentile values", ErrMissingBreakArgs, b.Method)
		}
		return binning.Percentile(v, b.Args.Values, b.Exceptions)
	case schema.ExplicitBreak:
		if len(b.Args.Values) == 0 {
			return nil, fmt.Errorf("%w: %s needs cut points", ErrMissingBreakArgs, b.Method)
		}
		return binning.Breaks(v, b.Args.Values, b.Exceptions)
	case schema.CleanCutBreak:
		spec, err := b.Args.spec()
		if err != nil {
			return nil, err
		}
		opts := b.Args.Cut
		opts.Exceptions = b.Exceptions
		return binning.CleanCut(v, spec, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBreakMethod, b.Method)
	}
}

// spec picks the bin spec for cleancut, preferring an explicit count.
func (a BreakArgs) spec() (binning.BinSpec, error) {
	switch {
	case a.Count != 0:
		return binning.BinCount(a.Count), nil
	case len(a.Values) > 0:
		return binning.BinCuts(a.Values...), nil
	default:
		return binning.BinSpec{}, fmt.Errorf("%w: %s needs a bin count or cut points", ErrMissingBreakArgs, schema.CleanCutBreak)
	}
}
