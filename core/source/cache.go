package source

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// currentCacheVersion defines the version of the cached entry encoding
const currentCacheVersion = 1

// cacheTTL bounds how long a cached parse is trusted
const cacheTTL = 7 * 24 * time.Hour

// CachedReadEntries behaves like ReadEntries but memoizes the normalized
// entries in store, keyed by the file's identity. A nil store reads directly.
func CachedReadEntries(store contract.CacheStore, pick schema.SourcePick, listName string) ([]schema.RankEntry, error) {
	if store == nil {
		return ReadEntries(pick, listName)
	}

	key, err := cacheKey(pick, listName)
	if err != nil {
		return nil, err
	}

	if entries := checkCacheHit(store, key); entries != nil {
		return entries, nil
	}

	entries, err := ReadEntries(pick, listName)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(entries); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			zap.L().Debug("Cache write failed", zap.String("path", pick.Path), zap.Error(err))
		}
	}
	return entries, nil
}

// checkCacheHit attempts to retrieve and validate cached entries
func checkCacheHit(store contract.CacheStore, key string) []schema.RankEntry {
	data, version, ts, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}
	var entries []schema.RankEntry
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return nil
	}
	return entries
}

// cacheKey hashes everything that changes the normalized output of a file
func cacheKey(pick schema.SourcePick, listName string) (string, error) {
	abs, err := filepath.Abs(pick.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s:%d:%d:%s:%s:%d",
		abs,
		info.Size(),
		info.ModTime().UnixNano(),
		pick.SourceName,
		listName,
		currentCacheVersion,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key))), nil
}
