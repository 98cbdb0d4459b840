package core

import (
	"context"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// Read-only queries. They compute in memory and never write files or history.

// ListLists returns the names of the lists under the root.
func ListLists(cfg *contract.Config) ([]string, error) {
	return source.ListDirs(cfg.Root)
}

// GetListSources returns the sources that would be aggregated for a list.
func GetListSources(cfg *contract.Config, name string) (schema.Selection, error) {
	return source.SelectSources(cfg.ListDir(name))
}

// GetListRanking computes the ranking of one list.
func GetListRanking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) (schema.ListResult, error) {
	return computeList(withSkipHistory(ctx), cfg, mgr, name)
}

// GetGlobalRanking computes the ranking across every list that aggregates
// cleanly. Failing lists are left out.
func GetGlobalRanking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ListResult, error) {
	ctx = withSkipHistory(ctx)
	names, err := targetLists(cfg)
	if err != nil {
		return schema.ListResult{}, err
	}

	var lists []schema.ListResult
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return schema.ListResult{}, err
		}
		result, err := computeList(ctx, cfg, mgr, name)
		if err != nil {
			zap.L().Warn("List left out of global ranking", zap.String("list", name), zap.Error(err))
			continue
		}
		lists = append(lists, result)
	}
	return computeGlobal(cfg.Root, lists), nil
}
