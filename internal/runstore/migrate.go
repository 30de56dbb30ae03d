package runstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/scoretools/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsTable tracks the applied version in every backend.
const migrationsTable = "scoretools_schema_migrations"

// newMigrate builds a migrator over db using the embedded migrations for backend.
func newMigrate(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory
	migrationFS, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "scoretools", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// upQuietly applies every pending migration.
func upQuietly(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Migrate runs database migrations for the run store and reports progress on stdout.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	return MigrateTo(os.Stdout, backend, connStr, targetVersion)
}

// MigrateTo is Migrate with progress written to w.
func MigrateTo(w io.Writer, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for %s backend", backend)
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Verify connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := newMigrate(db, backend)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at the latest version.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		newVersion, _, _ := m.Version()
		_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
	case targetVersion == 0:
		err = m.Down()
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(w, "No migration needed. Database is already at version 0")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Successfully rolled back from version %d to version 0\n", currentVersion)
	default:
		err = m.Migrate(uint(targetVersion))
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintf(w, "No migration needed. Database is already at version %d\n", targetVersion)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		_, _ = fmt.Fprintf(w, "Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
	}
	return nil
}
