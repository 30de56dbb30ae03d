package runstore

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scoretools/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun(time.Now(), "freq", "data.csv", map[string]any{"bins": 5})
	assert.NoError(t, err)
	assert.Empty(t, runID)
	assert.NoError(t, store.EndRun("x", time.Now(), 10))
	assert.NoError(t, store.RecordTable("x", "age", schema.FreqKind, 3, nil))

	runs, err := store.GetRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Close())
}

func TestRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestRunStore_SQLiteLifecycle(t *testing.T) {
	store := newSQLiteStore(t)
	ids := []string{"run-a", "run-b"}
	store.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	runA, err := store.BeginRun(start, "bivar", "data.csv", map[string]any{"perf": []string{"bad"}})
	require.NoError(t, err)
	assert.Equal(t, "run-a", runA)

	require.NoError(t, store.RecordTable(runA, "score", schema.BivarKind, 4, map[string]any{"n": 100}))
	require.NoError(t, store.RecordTable(runA, "age", schema.BivarKind, 6, nil))
	require.NoError(t, store.EndRun(runA, start.Add(1500*time.Millisecond), 100))

	runB, err := store.BeginRun(start.Add(time.Hour), "cut", "other.csv", nil)
	require.NoError(t, err)

	runs, err := store.GetRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, runA, runs[0].RunID)
	assert.Equal(t, "bivar", runs[0].Command)
	assert.True(t, runs[0].StartTime.Equal(start))
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].DurationMs)
	assert.Equal(t, int64(1500), *runs[0].DurationMs)
	assert.Equal(t, 100, runs[0].RowCount)
	require.NotNil(t, runs[0].Params)
	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(*runs[0].Params), &params))
	assert.Equal(t, []any{"bad"}, params["perf"])

	assert.Equal(t, runB, runs[1].RunID)
	assert.Nil(t, runs[1].EndTime)
	assert.Nil(t, runs[1].DurationMs)

	tables, err := store.GetRunTables(runA)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "age", tables[0].Variable)
	assert.Equal(t, string(schema.BivarKind), tables[1].TableKind)
	assert.Equal(t, 4, tables[1].Rows)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, runB, status.LastRunID)
	assert.True(t, status.OldestRunTime.Equal(start))
	assert.Equal(t, int64(100), status.TotalRows)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
	assert.Equal(t, int64(2), status.TableSizes[runTablesTable])
	assert.Positive(t, status.SizeBytes)

	require.NoError(t, store.Clear())
	runs, err = store.GetRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunStore_EndUnknownRun(t *testing.T) {
	store := newSQLiteStore(t)
	assert.Error(t, store.EndRun("missing", time.Now(), 0))
}

func TestRunStore_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	_, err = store.BeginRun(time.Now(), "freq", "data.csv", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewRunStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.GetRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRebind(t *testing.T) {
	query := "UPDATE t SET a = ?, b = ? WHERE c = ?"
	assert.Equal(t, query, rebind(query, schema.SQLiteBackend))
	assert.Equal(t, query, rebind(query, schema.MySQLBackend))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE c = $3", rebind(query, schema.PostgreSQLBackend))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`scoretools_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"scoretools_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"scoretools_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
}

func TestDBTimeScan(t *testing.T) {
	want := time.Date(2026, 5, 1, 12, 30, 15, 250000000, time.UTC)
	tests := []struct {
		name string
		src  any
	}{
		{"native", want},
		{"rfc3339", want.Format(time.RFC3339Nano)},
		{"mysql bytes", []byte("2026-05-01 12:30:15.25")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dbTime
			require.NoError(t, got.Scan(tt.src))
			assert.True(t, got.Valid)
			assert.True(t, want.Equal(got.Time))
		})
	}

	var null dbTime
	require.NoError(t, null.Scan(nil))
	assert.False(t, null.Valid)
	assert.Error(t, null.Scan(42))
	assert.Error(t, null.Scan("yesterday"))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	dsn, err := normalizeMySQLDSN("user:pass@tcp(localhost:3306)/scores")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "/scores")

	_, err = normalizeMySQLDSN("not a dsn")
	assert.Error(t, err)
}

func TestPrintRunStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintRunStatus(&buf, schema.RunStatus{Backend: "none"})
	assert.Equal(t, "Runs Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	PrintRunStatus(&buf, schema.RunStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     1,
		LastRunID:     "abc",
		LastRunTime:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		OldestRunTime: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		TotalRows:     42,
		TableSizes:    map[string]int64{runTablesTable: 3, runsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Contains(t, out, "Total Rows Processed: 42")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(runTablesTable)), bytes.Index(buf.Bytes(), []byte(runsTable+":")))
	assert.NotContains(t, out, "Storage")
}
