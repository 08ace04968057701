package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/devpick/internal/contract"
	"github.com/huangsam/devpick/internal/outwriter"
	"github.com/huangsam/devpick/internal/runstore"
	"github.com/huangsam/devpick/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsConfigSetup loads the run history settings without touching the database.
func runsConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Handle empty backend as NoneBackend
	backend := schema.DatabaseBackend(viper.GetString("runs-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("runs-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup loads minimal configuration and opens the run store.
// This is used by commands that need run history without full shared setup.
func runsSetup() error {
	if err := runsConfigSetup(); err != nil {
		return err
	}
	if err := runstore.InitRunStore(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsConfigSetupWrapper wraps runsConfigSetup for commands that manage the schema themselves.
func runsConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsConfigSetup()
}

// sqliteFilePath returns the SQLite database file in use.
func sqliteFilePath() string {
	if cfg.RunsDBConnect != "" {
		return cfg.RunsDBConnect
	}
	return contract.GetRunsDBFilePath()
}

// runsCmd focused on run history management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by pick. This avoids input file validation
// for simple history operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of recorded picks",
	Long: `Manage the history of picks recorded with --runs-backend.

When enabled, devpick records every pick round, storing:
- Run metadata (timestamp, seed, configuration, duration)
- Target, units built and the outcome flags
- Every building chosen in the round

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and buildings to Parquet
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check run history status
  devpick runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  devpick runs export --runs-backend sqlite --output-file history.parquet`,
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes of the run history.

Examples:
  devpick runs status --runs-backend sqlite
  devpick runs status --runs-backend sqlite --output json`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := runstore.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", fmt.Errorf("run history is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		if err := outwriter.NewOutWriter().WriteStatus(os.Stdout, status, cfg.Output); err != nil {
			contract.LogFatal("Failed to print run status", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and buildings",
	Long: `Delete all stored runs and the buildings they chose.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  devpick runs export --runs-backend sqlite --output-file backup.parquet
  devpick runs clear --runs-backend sqlite`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearRuns(cfg.RunsBackend, sqliteFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for analytics",
	Long: `Export all stored runs to Parquet format.

Exports two datasets next to --output-file:
- <name>.runs.parquet - metadata about each pick round
- <name>.buildings.parquet - the buildings chosen in each round

Requires: --output-file parameter

Examples:
  devpick runs export --runs-backend sqlite --output-file history.parquet
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
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
  devpick runs migrate --runs-backend sqlite

  # Rollback to initial state
  devpick runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.RunsDBConnect
		if cfg.RunsBackend == schema.SQLiteBackend {
			connStr = sqliteFilePath()
		}
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunsBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
