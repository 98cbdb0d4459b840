// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/gamerank/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetCacheStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking aggregation runs and their rankings.
type HistoryStore interface {
	// BeginRun creates a new run for a list and returns its unique ID
	BeginRun(listName string, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordRanking stores the ranked titles produced by a run
	RecordRanking(runID int64, ranking []schema.RankedTitle) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, sourceCount, titleCount int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunTitles returns every recorded ranking row ordered by run and position
	GetAllRunTitles() ([]schema.RunTitleRecord, error)

	// Close closes the underlying connection
	Close() error
}
