// Package schema has models and enums shared by all parts of scoretools.
package schema

// FreqRow is one row of a frequency table.
type FreqRow struct {
	Label             string  `json:"label"`
	Frequency         int     `json:"frequency"`
	Percent           float64 `json:"percent"`
	CumulativeFreq    int     `json:"cumulative_frequency"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// FreqTable is a frequency table for a single variable.
type FreqTable struct {
	Variable string    `json:"variable"`
	Rows     []FreqRow `json:"rows"`
}

// PerfStats summarizes one binary performance field within a bin.
type PerfStats struct {
	Sum  float64 `json:"sum"`
	Rate float64 `json:"rate"`
	Pct  float64 `json:"pct"`
}

// BivarRow is one bin of a bivariate table. Perf and Extra align with the
// table's PerfNames and ExtraNames.
type BivarRow struct {
	Label string      `json:"label"`
	N     int         `json:"n"`
	PctN  float64     `json:"pct_n"`
	Perf  []PerfStats `json:"perf"`
	Extra []float64   `json:"extra,omitempty"`
}

// BivarTable distributes one or more performance fields over a binned variable.
// Total holds column totals, with each Rate set to the overall mean.
type BivarTable struct {
	Variable   string     `json:"variable"`
	PerfNames  []string   `json:"perf_names"`
	ExtraNames []string   `json:"extra_names,omitempty"`
	Rows       []BivarRow `json:"rows"`
	Total      BivarRow   `json:"total"`
}

// GainsPoint is one point on a cumulative gains curve.
type GainsPoint struct {
	PctFile  float64 `json:"pct_file"`
	CumlPerf float64 `json:"cuml_perf"`
}

// GainsSeries is a cumulative gains curve for one score and performance pair.
type GainsSeries struct {
	Label     string       `json:"label"`
	Score     string       `json:"score"`
	Perf      string       `json:"perf"`
	Ascending bool         `json:"ascending"`
	KS        float64      `json:"ks"`
	Points    []GainsPoint `json:"points"`
}

// GainsInput is one score/performance/direction combination to plot.
type GainsInput struct {
	Perf      string  `json:"perf"`
	Score     string  `json:"score"`
	Ascending bool    `json:"ascending"`
	KS        float64 `json:"ks"`
}

// Table is a rendered rectangular table with an index column.
type Table struct {
	Title   string     `json:"title"`
	Index   string     `json:"index"`
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one labelled row of a Table. Values align with Table.Columns.
type TableRow struct {
	Label  string `json:"label"`
	Values []any  `json:"values"`
}

// BinnedValue pairs an input value with its assigned category.
type BinnedValue struct {
	Row      int      `json:"row"`
	Value    *float64 `json:"value"`
	Category *string  `json:"category"`
}
