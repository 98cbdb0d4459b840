package iocache

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
)

// cacheTable is the name of the table for parsed source files.
const cacheTable = "gamerank_parse_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager. A none backend leaves the
// corresponding store nil.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		cache, history, err := openStores(cacheBackend, cacheConnStr, historyBackend, historyConnStr)
		if err != nil {
			initErr = err
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.cache = cache
		Manager.history = history
	})

	return initErr
}

// openStores opens whichever stores are configured. Interface values stay
// nil for disabled stores so callers can compare against nil.
func openStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) (contract.CacheStore, contract.HistoryStore, error) {
	var cache contract.CacheStore
	if enabled(cacheBackend) {
		store, err := NewCacheStore(cacheTable, cacheBackend, cacheConnStr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		cache = store
	}

	var history contract.HistoryStore
	if enabled(historyBackend) {
		store, err := NewHistoryStore(historyBackend, historyConnStr)
		if err != nil {
			if cache != nil {
				_ = cache.Close()
			}
			return nil, nil, fmt.Errorf("failed to initialize history store: %w", err)
		}
		history = store
	}
	return cache, history, nil
}

func enabled(backend schema.DatabaseBackend) bool {
	return backend != "" && backend != schema.NoneBackend
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, connStr string) error {
	return clearStore(backend, connStr, contract.GetCacheDBFilePath(), cacheTable)
}

// ClearHistory drops all recorded runs the same way ClearCache drops the cache.
func ClearHistory(backend schema.DatabaseBackend, connStr string) error {
	// golang-migrate keeps its version in schema_migrations; drop it with the data
	return clearStore(backend, connStr, contract.GetHistoryDBFilePath(), runTitlesTable, runsTable, "schema_migrations")
}

func clearStore(backend schema.DatabaseBackend, connStr, defaultPath string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		dbFilePath := connStr
		if dbFilePath == "" {
			dbFilePath = defaultPath
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, tables...)

	case schema.NoneBackend, "":
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTables connects to the SQL database and drops the tables if they exist.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	db, err := openDB(backend, connStr, "")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, table := range tables {
		if err := validateTableName(table); err != nil {
			return err
		}
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
