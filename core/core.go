// Package core has the aggregation engine: source selection, merging,
// ranking and the files written for each list.
package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/covers"
	"github.com/huangsam/gamerank/internal/organize"
	"github.com/huangsam/gamerank/internal/outwriter"
	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// out renders every command result.
var out = outwriter.NewOutWriter()

// ExecuteList rebuilds the named lists and prints each ranking.
// It serves as the main entry point for the 'list' command.
func ExecuteList(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if len(cfg.Lists) == 0 {
		return errors.New("at least one list name is required")
	}

	var errs []error
	for _, name := range cfg.Lists {
		start := time.Now()
		result, err := processList(ctx, cfg, mgr, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if shouldSuppressOutput(ctx) {
			continue
		}
		if err := out.WriteList(result, cfg, time.Since(start)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExecuteAll rebuilds every list plus the global ranking and prints a summary.
// It serves as the main entry point for the 'all' command.
func ExecuteAll(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	batch, runErr := RunBatch(ctx, cfg, mgr)
	if runErr != nil && !errors.Is(runErr, ErrBatchFailed) {
		return runErr
	}
	if !shouldSuppressOutput(ctx) {
		if err := out.WriteBatch(batch, cfg, time.Since(start)); err != nil {
			return err
		}
	}
	return runErr
}

// ExecuteSourcesIndex writes all_sources.csv at the root and prints it.
func ExecuteSourcesIndex(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	index, err := BuildSourcesIndex(cfg.Root)
	if err != nil {
		return err
	}
	if err := outwriter.SaveSourcesIndex(filepath.Join(cfg.Root, schema.SourcesIndexFileName), index); err != nil {
		return err
	}
	return out.WriteSourcesIndex(index, cfg)
}

// ExecuteListsManifest writes _manifest.json at the root.
func ExecuteListsManifest(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	manifest, err := BuildListsManifest(cfg.Root, time.Now())
	if err != nil {
		return err
	}
	return outwriter.SaveListsManifest(filepath.Join(cfg.Root, schema.ListsManifestFileName), manifest)
}

// ExecuteCovers downloads cover images for each list into the shared covers
// directory. Lists run one after another so that a cover already fetched
// for an earlier list is skipped.
func ExecuteCovers(ctx context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	start := time.Now()
	names, err := targetLists(cfg)
	if err != nil {
		return err
	}

	downloader := covers.NewDownloader(covers.OptionsFromConfig(cfg))
	var stats []schema.CoverStats
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		sel, err := source.SelectSources(cfg.ListDir(name))
		if err != nil {
			zap.L().Warn("Skipping list", zap.String("list", name), zap.Error(err))
			continue
		}
		s, err := downloader.DownloadList(ctx, name, sel.Picks)
		if err != nil {
			zap.L().Warn("Skipping list", zap.String("list", name), zap.Error(err))
			continue
		}
		zap.L().Info("Covers processed",
			zap.String("list", name),
			zap.Int("downloaded", s.Downloaded),
			zap.Int("skipped", s.Skipped),
			zap.Int("failed", s.Failed))
		stats = append(stats, s)
	}
	return out.WriteCovers(stats, cfg, time.Since(start))
}

// ExecuteOrganize files flat source snapshots into per-source folders.
func ExecuteOrganize(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	moves, err := organize.Organize(cfg.Root, cfg.Lists, cfg.DryRun)
	if err != nil {
		return err
	}
	return out.WriteOrganize(moves, cfg)
}

// targetLists returns the configured lists, or every list under the root.
func targetLists(cfg *contract.Config) ([]string, error) {
	if len(cfg.Lists) > 0 {
		return cfg.Lists, nil
	}
	names, err := source.ListDirs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("lists root %s: %w", cfg.Root, err)
	}
	return names, nil
}
