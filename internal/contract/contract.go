// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/scoretools/schema"
)

// RunStore defines the interface for tracking command runs and the tables they produced.
// This allows the persistence layer to be mocked for testing.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, command, source string, params map[string]any) (string, error)

	// EndRun updates the run with completion data
	EndRun(runID string, endTime time.Time, rowCount int) error

	// RecordTable stores a summary of one table produced by a run
	RecordTable(runID, variable string, kind schema.TableKind, rows int, summary map[string]any) error

	// GetRuns returns every recorded run, oldest first
	GetRuns() ([]schema.RunRecord, error)

	// GetRunTables returns the tables recorded for one run
	GetRunTables(runID string) ([]schema.RunTableRecord, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// Clear removes every recorded run
	Clear() error

	// Close closes the underlying connection
	Close() error
}
