package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/scoretools/internal/contract"
	"github.com/huangsam/scoretools/internal/outwriter"
	"github.com/huangsam/scoretools/internal/runstore"
	"github.com/huangsam/scoretools/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendFromConfig reads and validates the run history backend settings.
func runsBackendFromConfig() (schema.DatabaseBackend, string, error) {
	configureConfigFile()
	if err := readConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("runs-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// runsSetup loads minimal configuration needed for run history operations.
// This is used by commands that need the run store without full shared setup.
func runsSetup(cmd *cobra.Command, _ []string) error {
	if err := bindCommandFlags(cmd); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", cfg.Output)
	}
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")
	cfg.UseColors = colors
	cfg.Sheet = contract.DefaultSheetName
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	store, err := runstore.NewRunStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	runStore = store
	return nil
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This does NOT open the store, so migrations can run on a fresh database.
func runsMigrateSetup(cmd *cobra.Command, _ []string) error {
	if err := bindCommandFlags(cmd); err != nil {
		return err
	}
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsCmd focused on run history management.
//
// Note: runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by the table commands. No source file is needed.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of recorded runs",
	Long: `Manage the run history recorded by cut, freq, bivar, gplot and report.

When a runs backend is configured, every command stores:
- Run metadata (command, source file, parameters, duration, row count)
- One summary per table produced (kind, row count, key statistics)

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show run history statistics
  list    - List recorded runs
  tables  - Show the tables recorded for one run
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite file
  export SCORETOOLS_RUNS_BACKEND=sqlite
  scoretools freq data.csv --var age
  scoretools runs list`,
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the latest and oldest
run times, the rows processed across all runs and the table sizes.

Examples:
  scoretools runs status --runs-backend sqlite`,
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := runStore.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get run status: %w", err)
		}
		runstore.PrintRunStatus(os.Stdout, status)
		return nil
	},
}

// runsListCmd lists recorded runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, oldest first",
	Long: `Print every recorded run with its command, source, times and row count.

Examples:
  scoretools runs list --runs-backend sqlite
  scoretools runs list --runs-backend sqlite --output parquet --output-file runs.parquet`,
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		records, err := runStore.GetRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		return outwriter.NewOutWriter().WriteRuns(records, cfg)
	},
}

// runsTablesCmd shows the tables of one run.
var runsTablesCmd = &cobra.Command{
	Use:   "tables <run-id>",
	Short: "Show the tables recorded for one run",
	Long: `Print the summary stored for every table a run produced.

Examples:
  scoretools runs tables 6f1c2a9e-... --runs-backend sqlite --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, args []string) error {
		start := time.Now()
		records, err := runStore.GetRunTables(args[0])
		if err != nil {
			return fmt.Errorf("failed to get run tables: %w", err)
		}
		table := runstore.RunTablesTable(args[0], records)
		return outwriter.NewOutWriter().WriteTables([]schema.Table{table}, cfg, time.Since(start))
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete every stored run and its table summaries.

Examples:
  # Export before clearing
  scoretools runs list --output parquet --output-file backup.parquet
  scoretools runs clear`,
	PreRunE: runsSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := runStore.Clear(); err != nil {
			return fmt.Errorf("failed to clear run history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  scoretools runs migrate --runs-backend sqlite

  # Migrate to specific version
  scoretools runs migrate --target-version 2

  # Rollback to initial state
  scoretools runs migrate --target-version 0`,
	PreRunE: runsMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.Migrate(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
