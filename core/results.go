package core

import (
	"context"
	"fmt"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/core/gains"
	"github.com/huangsam/scoretools/core/tables"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/frame"
	"github.com/huangsam/scoretools/schema"
)

// CutResult is one binned variable.
type CutResult struct {
	Variable    binning.Variable
	Categorical *binning.Categorical
}

// Breaker builds the break method described by the binning flags.
func Breaker(cfg *contract.Config) tables.Breaker {
	args := tables.BreakArgs{Cut: cfg.CutOptions()}
	switch cfg.Method {
	case schema.BinsBreak:
		args.Count = cfg.Bins
	case schema.PercentileBreak:
		args.Values = cfg.Percentiles
	case schema.ExplicitBreak:
		args.Values = cfg.Breaks
	case schema.CleanCutBreak:
		if spec := cfg.BinSpec(); spec.Kind == binning.SpecCuts {
			args.Values = spec.Cuts
		} else {
			args.Count = spec.Count
		}
	}
	return tables.Breaker{Method: cfg.Method, Args: args, Exceptions: cfg.Exceptions}
}

// FillOptions returns how unbinned records are tabulated.
func FillOptions(cfg *contract.Config) tables.FillOptions {
	return tables.FillOptions{FillNA: cfg.FillNA, NALast: cfg.NALast}
}

// loadFrame reads the configured source file.
func loadFrame(cfg *contract.Config) (*frame.Frame, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("a source CSV file is required")
	}
	return frame.Load(cfg.Source)
}

// requireVariables fails when no --var was given.
func requireVariables(cfg *contract.Config) error {
	if len(cfg.Variables) == 0 {
		return fmt.Errorf("at least one --var is required")
	}
	return nil
}

// GetCutResults bins every configured variable.
func GetCutResults(ctx context.Context, cfg *contract.Config) ([]CutResult, int, error) {
	if err := requireVariables(cfg); err != nil {
		return nil, 0, err
	}
	f, err := loadFrame(cfg)
	if err != nil {
		return nil, 0, err
	}
	breaker := Breaker(cfg)

	results := make([]CutResult, 0, len(cfg.Variables))
	for _, name := range cfg.Variables {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		v, err := f.Variable(name)
		if err != nil {
			return nil, 0, err
		}
		c, err := breaker.Apply(v)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to bin %s: %w", name, err)
		}
		results = append(results, CutResult{Variable: v, Categorical: c})
	}
	return results, f.Len(), nil
}

// GetFreqResults builds a frequency table for every configured variable.
func GetFreqResults(ctx context.Context, cfg *contract.Config) ([]schema.FreqTable, int, error) {
	cuts, rows, err := GetCutResults(ctx, cfg)
	if err != nil {
		return nil, 0, err
	}
	fill := FillOptions(cfg)
	out := make([]schema.FreqTable, len(cuts))
	for i, cut := range cuts {
		out[i] = tables.FreqTab(cut.Categorical, fill)
	}
	return out, rows, nil
}

// GetBivarResults distributes the performance fields over every configured variable.
func GetBivarResults(ctx context.Context, cfg *contract.Config) ([]schema.BivarTable, int, error) {
	if err := requireVariables(cfg); err != nil {
		return nil, 0, err
	}
	if len(cfg.Perfs) == 0 {
		return nil, 0, fmt.Errorf("at least one --perf is required")
	}
	f, err := loadFrame(cfg)
	if err != nil {
		return nil, 0, err
	}

	opts := tables.BivarOptions{
		Bivars:    cfg.Perfs,
		ExtraVars: cfg.ExtraVars,
		Breaker:   Breaker(cfg),
		Fill:      FillOptions(cfg),
	}
	out := make([]schema.BivarTable, 0, len(cfg.Variables))
	for _, name := range cfg.Variables {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		bt, err := tables.Bivar(f, name, opts)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, bt)
	}
	return out, f.Len(), nil
}

// GetGainsResults builds a gains curve for every score and performance pair, highest KS first.
func GetGainsResults(ctx context.Context, cfg *contract.Config) ([]schema.GainsSeries, int, error) {
	f, err := loadFrame(cfg)
	if err != nil {
		return nil, 0, err
	}
	series, err := gainsSeries(ctx, f, cfg.Perfs, cfg.Scores, cfg.Ascending, cfg.Exceptions, cfg.DepthOfFile)
	if err != nil {
		return nil, 0, err
	}
	return series, f.Len(), nil
}

func gainsSeries(ctx context.Context, src gains.Source, perfs, scores []string, ascending []bool, exceptions []float64, dof float64) ([]schema.GainsSeries, error) {
	inputs, err := gains.PrepareInputs(src, perfs, scores, ascending)
	if err != nil {
		return nil, err
	}
	out := make([]schema.GainsSeries, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := gains.PrepareCurve(src, in, exceptions, dof)
		if err != nil {
			return nil, fmt.Errorf("failed to build gains curve %s: %w", gains.SeriesLabel(in.Score, in.Perf), err)
		}
		out = append(out, s)
	}
	return out, nil
}
