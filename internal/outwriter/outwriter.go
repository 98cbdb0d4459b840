// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteList prints one list's ranking using the configured output format.
func (ow *OutWriter) WriteList(result schema.ListResult, cfg *contract.Config, duration time.Duration) error {
	return WriteRankingResults(result, cfg, duration)
}

// WriteBatch prints a batch summary using the configured output format.
func (ow *OutWriter) WriteBatch(result schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	return WriteBatchResults(result, cfg, duration)
}

// WriteSourcesIndex prints the source index using the configured output format.
func (ow *OutWriter) WriteSourcesIndex(entries []schema.SourceIndexEntry, cfg *contract.Config) error {
	return WriteSourcesIndexResults(entries, cfg)
}

// WriteCovers prints cover download counters using the configured output format.
func (ow *OutWriter) WriteCovers(stats []schema.CoverStats, cfg *contract.Config, duration time.Duration) error {
	return WriteCoverResults(stats, cfg, duration)
}

// WriteOrganize prints the moves of a reorganization using the configured output format.
func (ow *OutWriter) WriteOrganize(moves []schema.OrganizeMove, cfg *contract.Config) error {
	return WriteOrganizeResults(moves, cfg)
}

// GetMaxTableTitleWidth calculates the maximum width for titles in table output
// based on terminal width and table configuration.
func GetMaxTableTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Sources + Label with borders/padding
	baseWidth := 40

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
