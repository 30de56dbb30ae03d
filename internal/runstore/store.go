// Package runstore records command runs and the tables they produce.
package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable      = "scoretools_runs"
	runTablesTable = "scoretools_run_tables"
)

// mysqlTimeLayout is how MySQL renders DATETIME(6) when parseTime is off.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
	newID   func() string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend and brings
// its tables up to the latest migration.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend, newID: uuid.NewString}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	m, err := newMigrate(db, backend)
	if err == nil {
		err = upQuietly(m)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend, connStr: connStr, newID: uuid.NewString}, nil
}

// openDB opens the database for backend without verifying the connection.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		dsn, err := normalizeMySQLDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// normalizeMySQLDSN makes the driver return DATETIME columns as UTC time.Time values.
func normalizeMySQLDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// dbTime scans a timestamp stored natively or as text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		t.Valid = false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	parsed, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		if parsed, err = time.ParseInLocation(mysqlTimeLayout, text, time.UTC); err != nil {
			return fmt.Errorf("failed to parse timestamp %q: %w", text, err)
		}
	}
	t.Time, t.Valid = parsed, true
	return nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

func (rs *RunStoreImpl) exec(query string, args ...any) (sql.Result, error) {
	return rs.db.Exec(rebind(query, rs.backend), args...)
}

func (rs *RunStoreImpl) queryRow(query string, args ...any) *sql.Row {
	return rs.db.QueryRow(rebind(query, rs.backend), args...)
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, command, source string, params map[string]any) (string, error) {
	// Skip for NoneBackend
	if rs.disabled() {
		return "", nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run params: %w", err)
	}

	runID := rs.newID()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, command, source, start_time, row_count, params) VALUES (?, ?, ?, ?, 0, ?)`,
		quoteTableName(runsTable, rs.backend))
	if _, err := rs.exec(query, runID, command, source, formatTime(startTime, rs.backend), string(paramsJSON)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, endTime time.Time, rowCount int) error {
	// Skip for NoneBackend
	if rs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	var start dbTime
	if err := rs.queryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName), runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}

	durationMs := endTime.Sub(start.Time).Milliseconds()
	query := fmt.Sprintf(`UPDATE %s SET end_time = ?, duration_ms = ?, row_count = ? WHERE run_id = ?`, quotedTableName)
	if _, err := rs.exec(query, formatTime(endTime, rs.backend), durationMs, rowCount, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordTable stores a summary of one table produced by a run.
func (rs *RunStoreImpl) RecordTable(runID, variable string, kind schema.TableKind, rows int, summary map[string]any) error {
	// Skip for NoneBackend
	if rs.disabled() {
		return nil
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal table summary: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (run_id, variable, table_kind, row_count, summary) VALUES (?, ?, ?, ?, ?)`,
		quoteTableName(runTablesTable, rs.backend))
	if _, err := rs.exec(query, runID, variable, string(kind), rows, string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to insert run table: %w", err)
	}
	return nil
}

// GetRuns retrieves all runs from the store, oldest first.
func (rs *RunStoreImpl) GetRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, command, source, start_time, end_time, duration_ms, row_count, params FROM %s ORDER BY start_time, run_id`,
		quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end dbTime
		if err := rows.Scan(&record.RunID, &record.Command, &record.Source, &start, &end, &record.DurationMs, &record.RowCount, &record.Params); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			endTime := end.Time
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetRunTables retrieves the tables recorded for one run.
func (rs *RunStoreImpl) GetRunTables(runID string) ([]schema.RunTableRecord, error) {
	// Skip for NoneBackend
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, variable, table_kind, row_count, summary FROM %s WHERE run_id = ? ORDER BY variable, table_kind`,
		quoteTableName(runTablesTable, rs.backend))
	rows, err := rs.db.Query(rebind(query, rs.backend), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunTableRecord
	for rows.Next() {
		var record schema.RunTableRecord
		if err := rows.Scan(&record.RunID, &record.Variable, &record.TableKind, &record.Rows, &record.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan run table: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run tables: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)
	if err := rs.queryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest dbTime
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC, run_id DESC LIMIT 1", quotedRuns)
		if err := rs.queryRow(lastQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = last.Time

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedRuns)
		if err := rs.queryRow(oldestQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest.Time

		rowsQuery := fmt.Sprintf("SELECT COALESCE(SUM(row_count), 0) FROM %s", quotedRuns)
		if err := rs.queryRow(rowsQuery).Scan(&status.TotalRows); err != nil {
			return status, fmt.Errorf("failed to get total rows: %w", err)
		}
	}

	for _, table := range []string{runsTable, runTablesTable} {
		var count int64
		if err := rs.queryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	status.SizeBytes = rs.sizeBytes()
	return status, nil
}

// sizeBytes estimates the storage used by the run tables, or 0 when unknown.
func (rs *RunStoreImpl) sizeBytes() int64 {
	var size int64
	switch rs.backend {
	case schema.SQLiteBackend:
		if err := rs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			return 0
		}
		query := "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ? AND table_name IN (?, ?)"
		if err := rs.db.QueryRow(query, cfg.DBName, runsTable, runTablesTable).Scan(&size); err != nil {
			return 0
		}
	case schema.PostgreSQLBackend:
		query := "SELECT pg_total_relation_size($1) + pg_total_relation_size($2)"
		if err := rs.db.QueryRow(query, runsTable, runTablesTable).Scan(&size); err != nil {
			return 0
		}
	}
	return size
}

// Clear removes every recorded run and its tables.
func (rs *RunStoreImpl) Clear() error {
	// Skip for NoneBackend
	if rs.disabled() {
		return nil
	}

	for _, table := range []string{runTablesTable, runsTable} {
		if _, err := rs.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
