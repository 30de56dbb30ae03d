package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/scoretools/core/gains"
	"github.com/huangsam/scoretools/core/tables"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/frame"
	"github.com/huangsam/scoretools/internal/reportspec"
	"github.com/huangsam/scoretools/internal/xlsx"
	"github.com/huangsam/scoretools/schema"
)

// ExecuteReport builds every table of the report definition at cfg.Source and
// writes them into one workbook. --output-file and --overwrite take precedence
// over the report's own settings.
func ExecuteReport(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	report, err := reportspec.Load(cfg.Source)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg, "report")
	ctx = beginRun(ctx, store, "report", cfg, start)

	f, err := frame.Load(report.Source)
	if err != nil {
		return err
	}
	style, err := reportStyle(report)
	if err != nil {
		return err
	}

	output := report.Output
	if cfg.OutputFile != "" {
		output = cfg.OutputFile
	}
	w, err := xlsx.NewTableWriter(output, report.Overwrite || cfg.Overwrite)
	if err != nil {
		return err
	}
	saved := false
	defer func() {
		if !saved {
			_ = w.Discard()
		}
	}()

	defaultSheet := report.Sheet
	if defaultSheet == "" {
		defaultSheet = cfg.Sheet
	}
	cursors := make(map[string]xlsx.Cursor)
	written := 0
	for i, spec := range report.Tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		built, err := buildReportTables(ctx, f, report, spec, store)
		if err != nil {
			return fmt.Errorf("table %d (%s): %w", i+1, spec.Kind, err)
		}

		sheet := spec.Sheet
		if sheet == "" {
			sheet = defaultSheet
		}
		cur, ok := cursors[sheet]
		if !ok {
			cur = xlsx.Cursor{Sheet: sheet}
		}
		for _, t := range built {
			if cur, err = w.WriteTable(cur, t, style, xlsx.WriteOptions{Index: true}); err != nil {
				return err
			}
			written++
		}
		cursors[sheet] = cur
	}

	saved = true
	if err := w.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d table(s) to %s in %v\n", written, w.Path(), time.Since(start))
	endRun(ctx, store, f.Len())
	return nil
}

// reportStyle applies the report's header color and percent keys to the default style.
func reportStyle(report *reportspec.Report) (xlsx.Style, error) {
	style := xlsx.DefaultStyle()
	if report.HeaderColor != "" {
		style = style.WithHeaderColor(report.HeaderColor)
	}
	if report.PercentKeys != "" {
		h, err := xlsx.NewFormatHandler(report.PercentKeys)
		if err != nil {
			return style, err
		}
		style = style.WithFormats(h)
	}
	return style, nil
}

// buildReportTables computes the tables of one report entry, in write order.
func buildReportTables(ctx context.Context, f *frame.Frame, report *reportspec.Report, spec reportspec.TableSpec, store contract.RunStore) ([]schema.Table, error) {
	b := report.Effective(spec)
	switch spec.Kind {
	case schema.FreqKind:
		breaker, fill := b.Breaker(), b.FillOptions()
		out := make([]schema.Table, 0, len(spec.Variables))
		for _, name := range spec.Variables {
			v, err := f.Variable(name)
			if err != nil {
				return nil, err
			}
			c, err := breaker.Apply(v)
			if err != nil {
				return nil, fmt.Errorf("failed to bin %s: %w", name, err)
			}
			ft := tables.FreqTab(c, fill)
			recordTable(ctx, store, ft.Variable, schema.FreqKind, len(ft.Rows), freqSummary(ft))
			out = append(out, tables.FreqToTable(ft))
		}
		return out, nil

	case schema.BivarKind:
		opts := tables.BivarOptions{
			Bivars:    spec.Perf,
			ExtraVars: spec.Extra,
			Breaker:   b.Breaker(),
			Fill:      b.FillOptions(),
		}
		out := make([]schema.Table, 0, len(spec.Variables))
		for _, name := range spec.Variables {
			bt, err := tables.Bivar(f, name, opts)
			if err != nil {
				return nil, err
			}
			recordTable(ctx, store, bt.Variable, schema.BivarKind, len(bt.Rows), bivarSummary(bt))
			out = append(out, tables.BivarToTable(bt))
		}
		return out, nil

	case schema.GainsKind:
		series, err := gainsSeries(ctx, f, spec.Perf, spec.Scores, spec.AscendingFor(), b.Exceptions, spec.DOF)
		if err != nil {
			return nil, err
		}
		for _, s := range series {
			recordTable(ctx, store, s.Label, schema.GainsKind, len(s.Points), gainsSummary(s))
		}
		if spec.Chart != "" {
			if err := saveChart(reportRelative(report, spec.Chart), "", series); err != nil {
				return nil, err
			}
		}
		return []schema.Table{gains.SummaryTable(series)}, nil

	default:
		return nil, fmt.Errorf("unknown table kind %q", spec.Kind)
	}
}

// reportRelative resolves path against the directory of the report's source file.
func reportRelative(report *reportspec.Report, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(report.Source), path)
}
