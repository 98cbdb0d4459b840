// Package iocache holds the optional SQL-backed stores: a parse cache for
// source files and the history of aggregation runs.
package iocache

import (
	"sync"

	"github.com/huangsam/gamerank/internal/contract"
)

// CacheStoreManager manages the cache and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	cache        contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetCacheStore returns the parse cache, or nil when caching is disabled.
func (mgr *CacheStoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetHistoryStore returns the run history store, or nil when tracking is disabled.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
