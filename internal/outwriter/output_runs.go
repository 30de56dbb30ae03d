package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/parquet"
	"github.com/huangsam/scoretools/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const runTimeLayout = "2006-01-02 15:04:05"

// WriteRunResults outputs recorded runs, dispatching based on the output format configured.
func WriteRunResults(records []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, parquet.ConvertRunRecords(records))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"run_id", "command", "source", "start_time", "end_time", "duration_ms", "row_count"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range records {
					if err := cw.Write(runRow(r, time.RFC3339)); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(records), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		logWrote("Wrote Parquet", cfg.OutputFile)
	case schema.XLSXOut:
		return fmt.Errorf("xlsx output is not supported for run history")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(w, records)
		}, "Wrote table")
	}
	return nil
}

func runRow(r schema.RunRecord, layout string) []string {
	end, duration := "", ""
	if r.EndTime != nil {
		end = r.EndTime.Format(layout)
	}
	if r.DurationMs != nil {
		duration = strconv.FormatInt(*r.DurationMs, 10)
	}
	return []string{r.RunID, r.Command, r.Source, r.StartTime.Format(layout), end, duration, strconv.Itoa(r.RowCount)}
}

func writeRunTable(w io.Writer, records []schema.RunRecord) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Command", "Source", "Started", "Ended", "Duration (ms)", "Rows"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data := make([][]string, 0, len(records))
	for _, r := range records {
		data = append(data, runRow(r, runTimeLayout))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d run(s)\n", len(records))
	return err
}
