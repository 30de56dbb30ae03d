// Package parquet provides data structures and functions for exporting scoretools
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"github.com/parquet-go/parquet-go"
)

// BinnedValue is one record of a binned variable.
type BinnedValue struct {
	// Row is the zero-based position of the record in the source file
	Row int64 `parquet:"row,snappy"`

	// Variable is the name of the binned column
	Variable string `parquet:"variable,snappy,dict"`

	// Value is the original value (nullable when missing)
	Value *float64 `parquet:"value,optional,snappy"`

	// Category is the assigned bin label (nullable when unbinned)
	Category *string `parquet:"category,optional,snappy,dict"`
}

// FreqRow is one row of a frequency table.
type FreqRow struct {
	Variable            string  `parquet:"variable,snappy,dict"`
	Label               string  `parquet:"label,snappy"`
	Frequency           int64   `parquet:"frequency,snappy"`
	Percent             float64 `parquet:"percent,snappy"`
	CumulativeFrequency int64   `parquet:"cumulative_frequency,snappy"`
	CumulativePercent   float64 `parquet:"cumulative_percent,snappy"`
}

// TableCell is one cell of any summary table in long format.
type TableCell struct {
	// Table is the table title, usually the binned variable
	Table string `parquet:"table,snappy,dict"`

	// Label is the row label
	Label string `parquet:"label,snappy"`

	// Column is the column header
	Column string `parquet:"column,snappy,dict"`

	// Value holds numeric cells (nullable for text cells)
	Value *float64 `parquet:"value,optional,snappy"`

	// Text holds non-numeric cells (nullable for numeric cells)
	Text *string `parquet:"text,optional,snappy"`
}

// Run represents a single recorded command run.
// This struct maps to the scoretools_runs database table.
type Run struct {
	RunID      string     `parquet:"run_id,snappy"`
	Command    string     `parquet:"command,snappy,dict"`
	Source     string     `parquet:"source,snappy"`
	StartTime  time.Time  `parquet:"start_time,snappy"`
	EndTime    *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs *int64     `parquet:"duration_ms,optional,snappy"`
	RowCount   int64      `parquet:"row_count,snappy"`
	Params     *string    `parquet:"params,optional,snappy"`
}

// writeRows writes data to outputPath with a schema inferred from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteBinnedParquet writes binned records to a Parquet file.
func WriteBinnedParquet(data []BinnedValue, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteFreqParquet writes frequency rows to a Parquet file.
func WriteFreqParquet(data []FreqRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteTableCellsParquet writes table cells to a Parquet file.
func WriteTableCellsParquet(data []TableCell, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunsParquet writes run records to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertBinned pairs every value of v with its category in c.
func ConvertBinned(v binning.Variable, c *binning.Categorical) []BinnedValue {
	out := make([]BinnedValue, v.Len())
	for i, x := range v.Values {
		out[i] = BinnedValue{Row: int64(i), Variable: v.Name}
		if !math.IsNaN(x) {
			out[i].Value = &x
		}
		if label, ok := c.Label(i); ok {
			out[i].Category = &label
		}
	}
	return out
}

// ConvertFreqTable flattens a frequency table into Parquet rows.
func ConvertFreqTable(ft schema.FreqTable) []FreqRow {
	out := make([]FreqRow, len(ft.Rows))
	for i, r := range ft.Rows {
		out[i] = FreqRow{
			Variable:            ft.Variable,
			Label:               r.Label,
			Frequency:           int64(r.Frequency),
			Percent:             r.Percent,
			CumulativeFrequency: int64(r.CumulativeFreq),
			CumulativePercent:   r.CumulativePercent,
		}
	}
	return out
}

// ConvertTable unpivots a summary table into one cell per row and column.
func ConvertTable(t schema.Table) []TableCell {
	out := make([]TableCell, 0, len(t.Rows)*len(t.Columns))
	for _, r := range t.Rows {
		for j, col := range t.Columns {
			if j >= len(r.Values) {
				break
			}
			cell := TableCell{Table: t.Title, Label: r.Label, Column: col}
			switch v := r.Values[j].(type) {
			case float64:
				cell.Value = &v
			case int:
				f := float64(v)
				cell.Value = &f
			default:
				s := fmt.Sprint(v)
				cell.Text = &s
			}
			out = append(out, cell)
		}
	}
	return out
}

// ConvertRunRecords converts run records from the store into Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:      r.RunID,
			Command:    r.Command,
			Source:     r.Source,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			DurationMs: r.DurationMs,
			RowCount:   int64(r.RowCount),
			Params:     r.Params,
		}
	}
	return out
}
