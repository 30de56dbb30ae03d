package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/parquet"
	"github.com/huangsam/scoretools/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBinnedResults outputs the binned records, dispatching based on the output format configured.
func WriteBinnedResults(v binning.Variable, c *binning.Categorical, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, binnedRecords(v, c))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		format := newValueFormatter(cfg.Precision)
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"row", v.Name, "category"}, func(cw *csv.Writer) error {
				return writeCSVBinned(cw, v, c, format)
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBinnedParquet(parquet.ConvertBinned(v, c), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
	case schema.XLSXOut:
		if err := writeXLSXTables([]schema.Table{binnedTable(v, c)}, cfg); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
		logWrote("Wrote workbook", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBinnedSummary(w, v, c, duration)
		}, "Wrote table")
	}
	return nil
}

// binnedRecords pairs each input value with its category.
func binnedRecords(v binning.Variable, c *binning.Categorical) []schema.BinnedValue {
	out := make([]schema.BinnedValue, v.Len())
	for i, x := range v.Values {
		out[i].Row = i
		if !math.IsNaN(x) {
			out[i].Value = &x
		}
		if label, ok := c.Label(i); ok {
			out[i].Category = &label
		}
	}
	return out
}

func writeCSVBinned(w *csv.Writer, v binning.Variable, c *binning.Categorical, format valueFormatter) error {
	for i, x := range v.Values {
		label, _ := c.Label(i)
		if err := w.Write([]string{strconv.Itoa(i), format(x), label}); err != nil {
			return err
		}
	}
	return nil
}

// binnedTable lays the records out as a worksheet table indexed by row number.
func binnedTable(v binning.Variable, c *binning.Categorical) schema.Table {
	t := schema.Table{Title: v.Name, Index: "row", Columns: []string{v.Name, "category"}}
	for i, x := range v.Values {
		label, _ := c.Label(i)
		t.Rows = append(t.Rows, schema.TableRow{Label: strconv.Itoa(i), Values: []any{x, label}})
	}
	return t
}

// writeBinnedSummary prints the record count of every category rather than every record.
func writeBinnedSummary(w io.Writer, v binning.Variable, c *binning.Categorical, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{v.Name, "Count"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	counts := c.Counts()
	data := make([][]string, 0, len(counts))
	for code, label := range c.Categories {
		data = append(data, []string{label, strconv.Itoa(counts[code])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Binned %d records into %d categories (%d unbinned)\n", c.Len(), len(c.Categories), c.NullCount()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Binning completed in %v\n", duration)
	return err
}
