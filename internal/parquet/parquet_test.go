package parquet

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scoretools/core/binning"
	"github.com/huangsam/scoretools/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		schema  *parquet.Schema
		columns []string
	}{
		{"binned", parquet.SchemaOf(BinnedValue{}), []string{"row", "variable", "value", "category"}},
		{"freq", parquet.SchemaOf(FreqRow{}), []string{"variable", "label", "frequency", "percent", "cumulative_frequency", "cumulative_percent"}},
		{"cells", parquet.SchemaOf(TableCell{}), []string{"table", "label", "column", "value", "text"}},
		{"runs", parquet.SchemaOf(Run{}), []string{"run_id", "command", "source", "start_time", "end_time", "duration_ms", "row_count", "params"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, col := range tt.columns {
				_, ok := tt.schema.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteBinnedParquet(t *testing.T) {
	v := binning.NewVariable("age", []float64{18, math.NaN(), 65})
	c := &binning.Categorical{Name: "age", Categories: []string{"18-40", "41-65"}, Codes: []int{0, binning.NullCode, 1}}
	data := ConvertBinned(v, c)
	require.Len(t, data, 3)
	assert.Nil(t, data[1].Value)
	assert.Nil(t, data[1].Category)

	path := filepath.Join(t.TempDir(), "binned.parquet")
	require.NoError(t, WriteBinnedParquet(data, path))

	got := readAll[BinnedValue](t, path)
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[2].Row)
	require.NotNil(t, got[0].Value)
	assert.Equal(t, 18.0, *got[0].Value)
	require.NotNil(t, got[2].Category)
	assert.Equal(t, "41-65", *got[2].Category)
	assert.Nil(t, got[1].Value)
	assert.Nil(t, got[1].Category)
}

func TestWriteFreqParquet(t *testing.T) {
	ft := schema.FreqTable{
		Variable: "x",
		Rows: []schema.FreqRow{
			{Label: "0", Frequency: 2, Percent: 2.0 / 3, CumulativeFreq: 2, CumulativePercent: 2.0 / 3},
			{Label: "1", Frequency: 1, Percent: 1.0 / 3, CumulativeFreq: 3, CumulativePercent: 1},
		},
	}
	path := filepath.Join(t.TempDir(), "freq.parquet")
	require.NoError(t, WriteFreqParquet(ConvertFreqTable(ft), path))

	got := readAll[FreqRow](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "x", got[1].Variable)
	assert.Equal(t, int64(3), got[1].CumulativeFrequency)
	assert.InDelta(t, 1.0, got[1].CumulativePercent, 1e-12)
}

func TestConvertTable(t *testing.T) {
	table := schema.Table{
		Title:   "score",
		Columns: []string{"N", "bad Rate", "note"},
		Rows:    []schema.TableRow{{Label: "1-50", Values: []any{4, 0.25, "ok"}}},
	}
	cells := ConvertTable(table)
	require.Len(t, cells, 3)
	require.NotNil(t, cells[0].Value)
	assert.Equal(t, 4.0, *cells[0].Value)
	require.NotNil(t, cells[1].Value)
	assert.Equal(t, 0.25, *cells[1].Value)
	assert.Nil(t, cells[2].Value)
	require.NotNil(t, cells[2].Text)
	assert.Equal(t, "ok", *cells[2].Text)

	path := filepath.Join(t.TempDir(), "cells.parquet")
	require.NoError(t, WriteTableCellsParquet(cells, path))
	assert.Len(t, readAll[TableCell](t, path), 3)
}

func TestWriteRunsParquet(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int64(1500)
	params := `{"bins":5}`
	records := []schema.RunRecord{
		{RunID: "a", Command: "cut", Source: "data.csv", StartTime: start, EndTime: &end, DurationMs: &duration, RowCount: 10, Params: &params},
		{RunID: "b", Command: "freq", Source: "data.csv", StartTime: start},
	}
	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	got := readAll[Run](t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "cut", got[0].Command)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].DurationMs)
	assert.Equal(t, duration, *got[0].DurationMs)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].Params)
}

func TestWriteParquet_EmptyAndInvalidPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteFreqParquet(nil, path))
	assert.Empty(t, readAll[FreqRow](t, path))

	assert.Error(t, WriteBinnedParquet(nil, filepath.Join(t.TempDir(), "missing", "x.parquet")))
}
