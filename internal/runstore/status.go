package runstore

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/scoretools/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintRunStatus writes run store status information to w.
func PrintRunStatus(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Runs Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Rows Processed: %d\n", status.TotalRows)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
	if status.SizeBytes > 0 {
		_, _ = fmt.Fprintf(w, "Storage: %d bytes\n", status.SizeBytes)
	}
}

// RunTablesTable lays out the tables recorded for one run, one row per table.
func RunTablesTable(runID string, records []schema.RunTableRecord) schema.Table {
	out := schema.Table{
		Title:   "Run " + runID,
		Index:   "variable",
		Columns: []string{"kind", "rows", "summary"},
	}
	for _, r := range records {
		summary := ""
		if r.Summary != nil {
			summary = *r.Summary
		}
		out.Rows = append(out.Rows, schema.TableRow{
			Label:  r.Variable,
			Values: []any{r.TableKind, r.Rows, summary},
		})
	}
	return out
}
