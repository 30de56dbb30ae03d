package schema

import "time"

// RunStatus represents the status of the run-history store.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRows     int64            `json:"total_rows"`
	TableSizes    map[string]int64 `json:"table_sizes"`
	SizeBytes     int64            `json:"size_bytes"`
}
