package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/parquet"
	"github.com/huangsam/scoretools/internal/xlsx"
	"github.com/huangsam/scoretools/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// totalLabel marks the summary row of a bivariate table.
const totalLabel = "Total"

// WriteTableResults outputs summary tables, dispatching based on the output format configured.
func WriteTableResults(tables []schema.Table, cfg *contract.Config, duration time.Duration) error {
	format := newValueFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONTables(w, tables)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVTables(w, tables, format)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		var cells []parquet.TableCell
		for _, t := range tables {
			cells = append(cells, parquet.ConvertTable(t)...)
		}
		if err := parquet.WriteTableCellsParquet(cells, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
	case schema.XLSXOut:
		if err := writeXLSXTables(tables, cfg); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		logWrote("Wrote workbook", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTextTables(w, tables, cfg, format, duration)
		}, "Wrote table")
	}
	return nil
}

// jsonTable is the JSON shape of a table: rows keyed by column header.
type jsonTable struct {
	Title string           `json:"title"`
	Index string           `json:"index"`
	Rows  []map[string]any `json:"rows"`
}

func writeJSONTables(w io.Writer, tables []schema.Table) error {
	out := make([]jsonTable, 0, len(tables))
	for _, t := range tables {
		jt := jsonTable{Title: t.Title, Index: t.Index, Rows: make([]map[string]any, 0, len(t.Rows))}
		for _, r := range t.Rows {
			row := map[string]any{t.Index: r.Label}
			for j, col := range t.Columns {
				if j < len(r.Values) {
					row[col] = jsonNumber(r.Values[j])
				}
			}
			jt.Rows = append(jt.Rows, row)
		}
		out = append(out, jt)
	}
	return writeJSON(w, out)
}

// writeCSVTables writes every table in long-wide form. The header is repeated
// whenever the column set changes between tables.
func writeCSVTables(w io.Writer, tables []schema.Table, format valueFormatter) error {
	if len(tables) == 0 {
		return nil
	}
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	var columns []string
	for i, t := range tables {
		if i == 0 || !slices.Equal(columns, t.Columns) {
			columns = t.Columns
			header := append([]string{"variable", "label"}, t.Columns...)
			if err := csvWriter.Write(header); err != nil {
				return fmt.Errorf("failed to write CSV header: %w", err)
			}
		}
		for _, r := range t.Rows {
			record := []string{t.Title, r.Label}
			for _, v := range r.Values {
				record = append(record, format(v))
			}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeXLSXTables(tables []schema.Table, cfg *contract.Config) error {
	wb, err := xlsx.NewTableWriter(cfg.OutputFile, cfg.Overwrite)
	if err != nil {
		return err
	}
	cur := xlsx.Cursor{Sheet: cfg.Sheet}
	style := xlsx.DefaultStyle()
	for _, t := range tables {
		if cur, err = wb.WriteTable(cur, t, style, xlsx.WriteOptions{Index: true}); err != nil {
			_ = wb.Close()
			return err
		}
	}
	return wb.Close()
}

// writeTextTables renders one bordered table per entry, titled by its variable.
func writeTextTables(w io.Writer, tables []schema.Table, cfg *contract.Config, format valueFormatter, duration time.Duration) error {
	title := color.New(color.FgCyan, color.Bold)
	total := color.New(color.Bold)
	if cfg.UseColors {
		title.EnableColor()
		total.EnableColor()
	} else {
		title.DisableColor()
		total.DisableColor()
	}

	for _, t := range tables {
		if _, err := fmt.Fprintln(w, title.Sprint(t.Title)); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header(append([]string{t.Index}, t.Columns...))
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		labelWidth := getMaxLabelWidth(cfg, len(t.Columns))
		var data [][]string
		for _, r := range t.Rows {
			label := truncateLabel(r.Label, labelWidth)
			if r.Label == totalLabel {
				label = total.Sprint(label)
			}
			row := []string{label}
			for _, v := range r.Values {
				row = append(row, format(v))
			}
			data = append(data, row)
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Built %d table(s) in %v\n", len(tables), duration)
	return err
}
