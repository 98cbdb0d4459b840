package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/iocache"
	"github.com/huangsam/gamerank/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig loads the history settings without opening the store.
// Migrations use it so they can run on a fresh database.
func historyConfig() error {
	backend, connStr, err := storeConfig("history")
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	if err := historyConfig(); err != nil {
		return err
	}

	// Initialize stores with the loaded config (no cache for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

func historyConfigWrapper(_ *cobra.Command, _ []string) error {
	return historyConfig()
}

func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyCmd focused on run history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of aggregation runs",
	Long: `Manage the recorded history of list and global runs.

When enabled, every run stores:
- Run metadata (list, timestamps, duration, configuration)
- The number of sources and titles
- Every ranked title with its position, total score and source count

Supported backends: SQLite, MySQL, PostgreSQL, or None (default)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs while rebuilding every list
  gamerank all --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  gamerank history export --history-backend sqlite --output-file history`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all recorded runs and ranked titles.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  gamerank history export --history-backend sqlite --output-file backup
  gamerank history clear --history-backend sqlite`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the newest and oldest runs,
the number of ranked titles stored and the row count of each table.

Examples:
  gamerank history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.HistoryStatusOf(iocache.Manager)
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet format.

Writes two files next to --output-file:
- <output-file>.runs.parquet - one row per run
- <output-file>.run_titles.parquet - one row per ranked title of a run

Requires: --output-file parameter

Examples:
  gamerank history export --history-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportHistory(os.Stdout, iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gamerank history migrate --history-backend sqlite

  # Migrate to specific version
  gamerank history migrate --history-backend sqlite --target-version 1

  # Rollback to the initial state
  gamerank history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
