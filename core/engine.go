package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/gamerank/core/agg"
	"github.com/huangsam/gamerank/core/algo"
	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/outwriter"
	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// computeList runs selection, normalization, aggregation and ranking for
// one list. Nothing is written.
func computeList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) (schema.ListResult, error) {
	dir := cfg.ListDir(name)
	result := schema.ListResult{Name: name, Dir: dir}

	sel, err := source.SelectSources(dir)
	if err != nil {
		return result, fmt.Errorf("list %s: %w", name, err)
	}
	result.Picks = sel.Picks
	result.Unrecognized = sel.Unrecognized
	if len(sel.Picks) == 0 {
		return result, fmt.Errorf("list %s: %w", name, ErrNoSources)
	}

	store := cacheStore(mgr)
	for _, pick := range sel.Picks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entries, err := source.CachedReadEntries(store, pick, name)
		if err != nil {
			return result, fmt.Errorf("list %s: source %s: %w", name, pick.SourceName, err)
		}
		zap.L().Debug("Read source",
			zap.String("list", name),
			zap.String("source", pick.SourceName),
			zap.Int("rows", len(entries)))
		result.Entries = append(result.Entries, entries...)
	}

	finishResult(&result)
	return result, nil
}

// computeGlobal ranks the union of already computed lists. Sources are
// reported as "list/source" so the same site in two lists stays distinct.
func computeGlobal(root string, lists []schema.ListResult) schema.ListResult {
	result := schema.ListResult{Name: schema.GlobalListName, Dir: root}
	for _, l := range lists {
		for _, p := range l.Picks {
			result.Picks = append(result.Picks, schema.SourcePick{
				SourceName: l.Name + "/" + p.SourceName,
				Path:       p.Path,
			})
		}
		result.Entries = append(result.Entries, l.Entries...)
	}
	finishResult(&result)
	return result
}

// finishResult folds the collected entries into the ranking.
func finishResult(result *schema.ListResult) {
	result.RowCount = len(result.Entries)
	result.ScoreSum = 0
	for _, e := range result.Entries {
		result.ScoreSum += e.Score
	}
	result.Ranking = algo.RankTitles(agg.Aggregate(result.Entries))
}

// writeListFiles persists the ranking and the source manifest of a list.
func writeListFiles(result schema.ListResult) error {
	if err := outwriter.SaveRanking(filepath.Join(result.Dir, schema.AggregatedFileName), result.Ranking); err != nil {
		return fmt.Errorf("list %s: write ranking: %w", result.Name, err)
	}
	manifestPath := filepath.Join(result.Dir, schema.ManifestFileName)
	prior, err := ReadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("list %s: read manifest: %w", result.Name, err)
	}
	entries, err := BuildManifest(result.Dir, result.Picks, prior)
	if err != nil {
		return fmt.Errorf("list %s: %w", result.Name, err)
	}
	if err := outwriter.SaveManifest(manifestPath, entries); err != nil {
		return fmt.Errorf("list %s: write manifest: %w", result.Name, err)
	}
	return nil
}

// processList computes one list, writes its files and records the run.
func processList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) (schema.ListResult, error) {
	start := time.Now()
	result, err := computeList(ctx, cfg, mgr, name)
	if err != nil {
		return result, err
	}
	if err := writeListFiles(result); err != nil {
		return result, err
	}
	recordRun(ctx, cfg, mgr, result, start)
	return result, nil
}

// RunBatch processes every list under the root, or the named lists when
// any are configured, then the global ranking. A failing list does not stop
// the others; ErrBatchFailed is returned once everything else is written.
func RunBatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.BatchResult, error) {
	var batch schema.BatchResult

	names := cfg.Lists
	if len(names) == 0 {
		var err error
		if names, err = source.ListDirs(cfg.Root); err != nil {
			return batch, fmt.Errorf("lists root %s: %w", cfg.Root, err)
		}
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		result, err := processList(ctx, cfg, mgr, name)
		if err != nil {
			zap.L().Warn("List failed", zap.String("list", name), zap.Error(err))
			batch.Failures = append(batch.Failures, schema.ListFailure{Name: name, Err: err})
			continue
		}
		batch.Lists = append(batch.Lists, result)
	}

	if cfg.Global && len(batch.Lists) > 0 {
		start := time.Now()
		global := computeGlobal(cfg.Root, batch.Lists)
		if err := outwriter.SaveRanking(cfg.GlobalOutputPath(), global.Ranking); err != nil {
			return batch, fmt.Errorf("write global ranking: %w", err)
		}
		recordRun(ctx, cfg, mgr, global, start)
		batch.Global = &global
	}

	if len(batch.Failures) > 0 {
		return batch, fmt.Errorf("%w: %d of %d", ErrBatchFailed, len(batch.Failures), len(names))
	}
	return batch, nil
}

func cacheStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetCacheStore()
}

func historyStore(mgr contract.CacheManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}
