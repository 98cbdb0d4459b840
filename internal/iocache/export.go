package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/parquet"
)

// ExportHistory writes the run history held by store to two Parquet files
// named after outputFile.
func ExportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to export runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total ranked titles: %d\n", status.TotalTitlesRanked)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	titles, err := store.GetAllRunTitles()
	if err != nil {
		return fmt.Errorf("failed to retrieve run titles: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	titlesFile := outputFile + ".run_titles.parquet"
	parquetTitles := parquet.ConvertRunTitleRecords(titles)
	if err := parquet.WriteRunTitlesParquet(parquetTitles, titlesFile); err != nil {
		return fmt.Errorf("failed to write run titles: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d ranked titles to: %s\n", len(parquetTitles), titlesFile)

	return nil
}
