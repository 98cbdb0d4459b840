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

// storeConfig loads and validates the backend settings stored under prefix,
// either "cache" or "history".
func storeConfig(prefix string) (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend, err := contract.ParseBackend(viper.GetString(prefix + "-backend"))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", prefix, err)
	}
	connStr := viper.GetString(prefix + "-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheConfig loads the cache settings without opening the store.
func cacheConfig() error {
	backend, connStr, err := storeConfig("cache")
	if err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := cacheConfig(); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by the ranking commands. This avoids lists root validation
// for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parse cache of source files",
	Long: `Manage the cache that stores normalized rows of source files.

When enabled, a file whose path, size and modification time are unchanged is not
parsed again on the next run.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  gamerank cache status --cache-backend sqlite

  # Clear cache
  gamerank cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached source data",
	Long: `Delete all cached source rows from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache
  gamerank cache clear --cache-backend sqlite

  # Clear MySQL cache (set connection string via env variable)
  GAMERANK_CACHE_BACKEND=mysql GAMERANK_CACHE_DB_CONNECT="..." gamerank cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached files, the newest and oldest
entries and the size of the cache table.

Examples:
  gamerank cache status --cache-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.CacheStatusOf(iocache.Manager)
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
