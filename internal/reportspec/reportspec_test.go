package reportspec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullReport = `
source: data.csv
output: report.xlsx
overwrite: true
header_color: "#ddebf7"
defaults:
  bins: 5
  exceptions: [-1, 9999]
  fill_na: N/A
tables:
  - kind: freq
    variables: age
  - kind: bivar
    sheet: Bivariate
    variables: [score, income]
    perf: bad
    extra: [balance]
    bins: [0, 500, 700]
    digits: 1
  - kind: bivar
    variables: [score]
    perf: [bad]
    method: percentiles
    percentiles: [10, 50, 90]
    drop_na: true
  - kind: gains
    perf: bad
    scores: [score, score2]
    ascending: [true, false]
    dof: 0.5
    chart: gains.png
`

func TestParse_Full(t *testing.T) {
	r, err := Parse(strings.NewReader(fullReport))
	require.NoError(t, err)

	assert.Equal(t, "data.csv", r.Source)
	assert.True(t, r.Overwrite)
	require.Len(t, r.Tables, 4)

	freq := r.Tables[0]
	assert.Equal(t, schema.FreqKind, freq.Kind)
	assert.Equal(t, List[string]{"age"}, freq.Variables)
	b := r.Effective(freq)
	require.NotNil(t, b.Bins)
	assert.Equal(t, binning.BinCount(5), b.Bins.BinSpec)
	assert.Equal(t, []float64{-1, 9999}, b.Exceptions)

	breaker := b.Breaker()
	assert.Equal(t, schema.CleanCutBreak, breaker.Method)
	assert.Equal(t, 5, breaker.Args.Count)
	assert.Equal(t, []float64{-1, 9999}, breaker.Exceptions)
	fill := b.FillOptions()
	require.NotNil(t, fill.FillNA)
	assert.Equal(t, "N/A", *fill.FillNA)

	bivar := r.Tables[1]
	assert.Equal(t, "Bivariate", bivar.Sheet)
	assert.Equal(t, List[string]{"bad"}, bivar.Perf)
	breaker = r.Effective(bivar).Breaker()
	assert.Equal(t, []float64{0, 500, 700}, breaker.Args.Values)
	assert.Zero(t, breaker.Args.Count)
	assert.Equal(t, 1, breaker.Args.Cut.Digits)

	pct := r.Effective(r.Tables[2])
	assert.Equal(t, schema.PercentileBreak, pct.Breaker().Method)
	assert.Equal(t, []float64{10, 50, 90}, pct.Breaker().Args.Values)
	assert.Nil(t, pct.FillOptions().FillNA)

	gains := r.Tables[3]
	assert.Equal(t, []bool{true, false}, gains.AscendingFor())
	assert.Equal(t, 0.5, gains.DOF)
	assert.Equal(t, "gains.png", gains.Chart)
}

func TestParse_Defaults(t *testing.T) {
	r, err := Parse(strings.NewReader("source: d.csv\ntables:\n  - kind: gains\n    perf: bad\n    scores: s\n"))
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, r.Tables[0].AscendingFor())

	b := r.Effective(r.Tables[0])
	assert.Nil(t, b.Bins)
	assert.Equal(t, DefaultBins, b.Breaker().Args.Count)
	fill := b.FillOptions()
	require.NotNil(t, fill.FillNA)
	assert.Equal(t, binning.DefaultMissingLabel, *fill.FillNA)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{"empty", "", "empty document"},
		{"no source", "tables:\n  - kind: freq\n    variables: a\n", "source is required"},
		{"no tables", "source: d.csv\n", "no tables"},
		{"unknown kind", "source: d.csv\ntables:\n  - kind: pie\n", "unknown kind"},
		{"unknown key", "source: d.csv\ncolour: red\n", "colour"},
		{"freq without variables", "source: d.csv\ntables:\n  - kind: freq\n", "variables are required"},
		{"bivar without perf", "source: d.csv\ntables:\n  - kind: bivar\n    variables: a\n", "perf are required"},
		{"bad method", "source: d.csv\ntables:\n  - kind: freq\n    variables: a\n    method: magic\n", "unknown method"},
		{"bins map", "source: d.csv\ntables:\n  - kind: freq\n    variables: a\n    bins: {n: 3}\n", "bins must be"},
		{"bins zero", "source: d.csv\ntables:\n  - kind: freq\n    variables: a\n    bins: 0\n", "bin count"},
		{"bins text", "source: d.csv\ntables:\n  - kind: freq\n    variables: a\n    bins: many\n", "bins must be"},
		{"ascending mismatch", "source: d.csv\ntables:\n  - kind: gains\n    perf: p\n    scores: [a, b, c]\n    ascending: [true, false]\n", "ascending must have"},
		{"dof range", "source: d.csv\ntables:\n  - kind: gains\n    perf: p\n    scores: a\n    dof: 2\n", "dof must be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMerge_TableWins(t *testing.T) {
	digits := 2
	defaults := Binning{Method: schema.BinsBreak, Digits: &digits, Exceptions: []float64{-1}}
	own := 0
	table := Binning{Digits: &own, Exceptions: []float64{}}

	merged := table.Merge(defaults)
	assert.Equal(t, schema.BinsBreak, merged.Method)
	assert.Equal(t, 0, *merged.Digits)
	assert.Empty(t, merged.Exceptions)
}

func TestLoad_ResolvesSourceAgainstReportDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: data.csv\ntables:\n  - kind: freq\n    variables: a\n"), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), r.Source)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
