package core

import (
	"context"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
)

// recordRun stores a finished run in the history store when one is configured.
// Tracking failures are logged and never fail the run.
func recordRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, result schema.ListResult, start time.Time) {
	if shouldSkipHistory(ctx) {
		return
	}
	hs := historyStore(mgr)
	if hs == nil {
		return
	}

	configParams := map[string]any{
		"root":         cfg.Root,
		"list":         result.Name,
		"result_limit": cfg.ResultLimit,
		"global":       cfg.Global,
		"sources":      len(result.Picks),
	}
	runID, err := hs.BeginRun(result.Name, start, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return
	}
	if err := hs.RecordRanking(runID, result.Ranking); err != nil {
		contract.LogWarn("Failed to record ranking", err)
	}
	if err := hs.EndRun(runID, time.Now(), len(result.Picks), len(result.Ranking)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
