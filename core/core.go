// Package core has core logic for binning variables and building score tables.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/scoretools/core/gains"
	"github.com/huangsam/scoretools/core/tables"
	"github.com/huangsam/scoretools/internal/chart"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/outwriter"
	"github.com/huangsam/scoretools/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.RunStore) error

// ExecuteCut bins a single variable and prints the category of every record.
func ExecuteCut(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	if len(cfg.Variables) != 1 {
		return fmt.Errorf("cut takes exactly one --var (received %d)", len(cfg.Variables))
	}
	start := time.Now()
	logRunHeader(ctx, cfg, "cut")
	ctx = beginRun(ctx, store, "cut", cfg, start)

	results, rowCount, err := GetCutResults(ctx, cfg)
	if err != nil {
		return err
	}
	cut := results[0]
	recordTable(ctx, store, cut.Variable.Name, schema.FreqKind, len(cut.Categorical.Categories),
		map[string]any{"unbinned": cut.Categorical.NullCount()})

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteBinned(cut.Variable, cut.Categorical, cfg, duration); err != nil {
		return err
	}
	endRun(ctx, store, rowCount)
	return nil
}

// ExecuteFreq prints a frequency table for every configured variable.
func ExecuteFreq(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	logRunHeader(ctx, cfg, "freq")
	ctx = beginRun(ctx, store, "freq", cfg, start)

	results, rowCount, err := GetFreqResults(ctx, cfg)
	if err != nil {
		return err
	}
	out := make([]schema.Table, len(results))
	for i, ft := range results {
		out[i] = tables.FreqToTable(ft)
		recordTable(ctx, store, ft.Variable, schema.FreqKind, len(ft.Rows), freqSummary(ft))
	}

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteTables(out, cfg, duration); err != nil {
		return err
	}
	endRun(ctx, store, rowCount)
	return nil
}

// ExecuteBivar prints a bivariate table for every configured variable.
func ExecuteBivar(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	logRunHeader(ctx, cfg, "bivar")
	ctx = beginRun(ctx, store, "bivar", cfg, start)

	results, rowCount, err := GetBivarResults(ctx, cfg)
	if err != nil {
		return err
	}
	out := make([]schema.Table, len(results))
	for i, bt := range results {
		out[i] = tables.BivarToTable(bt)
		recordTable(ctx, store, bt.Variable, schema.BivarKind, len(bt.Rows), bivarSummary(bt))
	}

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteTables(out, cfg, duration); err != nil {
		return err
	}
	endRun(ctx, store, rowCount)
	return nil
}

// ExecuteGplot ranks every score and performance pair by KS, prints the
// summary and saves the gains chart when a chart file is configured.
func ExecuteGplot(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	logRunHeader(ctx, cfg, "gplot")
	ctx = beginRun(ctx, store, "gplot", cfg, start)

	series, rowCount, err := GetGainsResults(ctx, cfg)
	if err != nil {
		return err
	}
	for _, s := range series {
		recordTable(ctx, store, s.Label, schema.GainsKind, len(s.Points), gainsSummary(s))
	}

	if cfg.ChartFile != "" {
		if err := saveChart(cfg.ChartFile, cfg.ChartTitle, series); err != nil {
			return err
		}
	}

	duration := time.Since(start)
	if err := outwriter.NewOutWriter().WriteTables([]schema.Table{gains.SummaryTable(series)}, cfg, duration); err != nil {
		return err
	}
	endRun(ctx, store, rowCount)
	return nil
}

// saveChart draws series into path.
func saveChart(path, title string, series []schema.GainsSeries) error {
	opts := chart.DefaultOptions()
	opts.Title = title
	if err := chart.SaveGains(path, series, opts); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote gains chart to %s\n", path)
	return nil
}
