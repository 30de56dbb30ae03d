package schema

import "time"

// RunRecord represents a row from the scoretools_runs table.
type RunRecord struct {
	RunID      string
	Command    string
	Source     string
	StartTime  time.Time
	EndTime    *time.Time
	DurationMs *int64
	RowCount   int
	Params     *string
}

// RunTableRecord represents a row from the scoretools_run_tables table.
type RunTableRecord struct {
	RunID     string
	Variable  string
	TableKind string
	Rows      int
	Summary   *string
}
