// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteTables prints summary tables using the configured output format.
func (ow *OutWriter) WriteTables(tables []schema.Table, cfg *contract.Config, duration time.Duration) error {
	return WriteTableResults(tables, cfg, duration)
}

// WriteBinned prints the category of every record of v using the configured output format.
func (ow *OutWriter) WriteBinned(v binning.Variable, c *binning.Categorical, cfg *contract.Config, duration time.Duration) error {
	return WriteBinnedResults(v, c, cfg, duration)
}

// WriteRuns prints the recorded run history using the configured output format.
func (ow *OutWriter) WriteRuns(records []schema.RunRecord, cfg *contract.Config) error {
	return WriteRunResults(records, cfg)
}
