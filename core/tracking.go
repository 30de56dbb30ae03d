package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
)

// logRunHeader prints a one-line summary of what is about to be computed.
func logRunHeader(ctx context.Context, cfg *contract.Config, command string) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut {
		return
	}
	source := filepath.Base(cfg.Source)
	switch command {
	case "gplot":
		fmt.Printf("🔎 Source: %s (Scores: %d, Perfs: %d)\n", source, len(cfg.Scores), len(cfg.Perfs))
	case "report":
		fmt.Printf("🔎 Report: %s\n", source)
	default:
		fmt.Printf("🔎 Source: %s (Method: %s)\n", source, cfg.Method)
	}
}

// runParams captures the settings recorded alongside a run.
func runParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"output": string(cfg.Output),
	}
	if len(cfg.Variables) > 0 {
		params["variables"] = cfg.Variables
		params["method"] = string(cfg.Method)
		params["bins"] = cfg.Bins
	}
	if len(cfg.Exceptions) > 0 {
		params["exceptions"] = cfg.Exceptions
	}
	if len(cfg.Perfs) > 0 {
		params["perfs"] = cfg.Perfs
	}
	if len(cfg.Scores) > 0 {
		params["scores"] = cfg.Scores
		params["ascending"] = cfg.Ascending
		params["dof"] = cfg.DepthOfFile
	}
	return params
}

// beginRun records the start of a run and stores its id in the returned context.
// Tracking failures never abort the command.
func beginRun(ctx context.Context, store contract.RunStore, command string, cfg *contract.Config, start time.Time) context.Context {
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(start, command, cfg.Source, runParams(cfg))
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordTable stores the summary of one table for the current run, if any.
func recordTable(ctx context.Context, store contract.RunStore, variable string, kind schema.TableKind, rows int, summary map[string]any) {
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.RecordTable(runID, variable, kind, rows, summary); err != nil {
		logTrackingError("record table", variable, err)
	}
}

// endRun finalizes the current run, if any.
func endRun(ctx context.Context, store contract.RunStore, rowCount int) {
	runID, ok := getRunID(ctx)
	if store == nil || !ok {
		return
	}
	if err := store.EndRun(runID, time.Now(), rowCount); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// logTrackingError logs run tracking errors without failing the command.
func logTrackingError(operation, variable string, err error) {
	contract.LogWarn(fmt.Sprintf("Run tracking failed for %s on %s", operation, variable), err)
}

// freqSummary is stored for every frequency table.
func freqSummary(ft schema.FreqTable) map[string]any {
	total := 0
	for _, r := range ft.Rows {
		total += r.Frequency
	}
	return map[string]any{"categories": len(ft.Rows), "records": total}
}

// bivarSummary is stored for every bivariate table.
func bivarSummary(bt schema.BivarTable) map[string]any {
	rates := make(map[string]float64, len(bt.PerfNames))
	for i, name := range bt.PerfNames {
		if i < len(bt.Total.Perf) {
			rates[name] = bt.Total.Perf[i].Rate
		}
	}
	return map[string]any{"categories": len(bt.Rows), "records": bt.Total.N, "rates": rates}
}

// gainsSummary is stored for every gains curve.
func gainsSummary(s schema.GainsSeries) map[string]any {
	return map[string]any{"ks": s.KS, "ascending": s.Ascending}
}
