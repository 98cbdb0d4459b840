package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/internal/parquet"
	"github.com/huangsam/gamerank/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// BatchListView is one row of the batch summary.
type BatchListView struct {
	List        string `json:"list"`
	SourceCount int    `json:"source_count"`
	TitleCount  int    `json:"title_count"`
	RowCount    int    `json:"row_count"`
	ScoreSum    int    `json:"score_sum"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// BatchView is the displayable form of a batch run.
type BatchView struct {
	Lists  []BatchListView `json:"lists"`
	Global *RankingView    `json:"global,omitempty"`
}

// NewBatchView summarizes each list and labels the global top titles.
func NewBatchView(result schema.BatchResult, limit int) BatchView {
	var view BatchView
	for _, l := range result.Lists {
		view.Lists = append(view.Lists, BatchListView{
			List:        l.Name,
			SourceCount: len(l.Picks),
			TitleCount:  len(l.Ranking),
			RowCount:    l.RowCount,
			ScoreSum:    l.ScoreSum,
			Status:      "ok",
		})
	}
	for _, f := range result.Failures {
		lv := BatchListView{List: f.Name, Status: "failed"}
		if f.Err != nil {
			lv.Error = f.Err.Error()
		}
		view.Lists = append(view.Lists, lv)
	}
	if result.Global != nil {
		gv := NewRankingView(*result.Global, limit)
		view.Global = &gv
	}
	return view
}

// WriteBatchResults outputs a batch summary, dispatching based on the output format configured.
func WriteBatchResults(result schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	view := NewBatchView(result, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, view)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, rankedRows(batchRankingViews(result, cfg.ResultLimit)...))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingsXLSX(w, batchRankingViews(result, cfg.ResultLimit))
		}, "Wrote XLSX"); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, view, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// batchRankingViews returns the global ranking first, then every list.
func batchRankingViews(result schema.BatchResult, limit int) []RankingView {
	var views []RankingView
	if result.Global != nil {
		views = append(views, NewRankingView(*result.Global, limit))
	}
	for _, l := range result.Lists {
		views = append(views, NewRankingView(l, limit))
	}
	return views
}

// writeBatchTable writes the per-list summary followed by the global ranking.
func writeBatchTable(w io.Writer, view BatchView, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"List", "Sources", "Titles", "Rows", "Score", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	failed := 0
	for _, l := range view.Lists {
		status := l.Status
		if l.Error != "" {
			failed++
			status = contract.TruncateText(l.Error, GetMaxTableTitleWidth(cfg))
		}
		data = append(data, []string{
			l.List,
			strconv.Itoa(l.SourceCount),
			strconv.Itoa(l.TitleCount),
			strconv.Itoa(l.RowCount),
			strconv.Itoa(l.ScoreSum),
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Processed %d lists (%d failed)\n", len(view.Lists), failed); err != nil {
		return err
	}

	if view.Global != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := writeRankingTable(w, *view.Global, cfg); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Batch completed in %v. Cache backend: %s\n", duration.Round(time.Millisecond), cfg.CacheBackend)
	return err
}

// writeBatchCSV writes one summary row per list.
func writeBatchCSV(w io.Writer, view BatchView) error {
	header := []string{"list", "source_count", "title_count", "row_count", "score_sum", "status", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, l := range view.Lists {
			rec := []string{
				l.List,
				strconv.Itoa(l.SourceCount),
				strconv.Itoa(l.TitleCount),
				strconv.Itoa(l.RowCount),
				strconv.Itoa(l.ScoreSum),
				l.Status,
				l.Error,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
