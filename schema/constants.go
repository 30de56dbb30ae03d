package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// BreakMethod names a strategy for binning a variable before tabulating it.
	BreakMethod string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// TableKind names a table type inside a report definition.
	TableKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All break methods supported.
const (
	NoBreak         BreakMethod = "none" // default: one row per distinct value
	BinsBreak       BreakMethod = "bins"
	PercentileBreak BreakMethod = "percentiles"
	ExplicitBreak   BreakMethod = "breaks"
	CleanCutBreak   BreakMethod = "cleancut"
)

// All run-history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All report table kinds supported.
const (
	FreqKind  TableKind = "freq"
	BivarKind TableKind = "bivar"
	GainsKind TableKind = "gains"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidBreakMethods lists all valid break methods.
var ValidBreakMethods = map[BreakMethod]struct{}{
	NoBreak:         {},
	BinsBreak:       {},
	PercentileBreak: {},
	ExplicitBreak:   {},
	CleanCutBreak:   {},
}

// ValidDatabaseBackends lists all valid run-history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidTableKinds lists all valid report table kinds.
var ValidTableKinds = map[TableKind]struct{}{
	FreqKind:  {},
	BivarKind: {},
	GainsKind: {},
}
