package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// coverTotals sums the counters of every list.
func coverTotals(stats []schema.CoverStats) schema.CoverStats {
	total := schema.CoverStats{List: "TOTAL"}
	for _, s := range stats {
		total.Downloaded += s.Downloaded
		total.Skipped += s.Skipped
		total.Failed += s.Failed
	}
	return total
}

// WriteCoverResults outputs cover download counters, dispatching based on the output format configured.
func WriteCoverResults(stats []schema.CoverStats, cfg *contract.Config, duration time.Duration) error {
	if stats == nil {
		stats = []schema.CoverStats{}
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"lists": stats,
				"total": coverTotals(stats),
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"list", "downloaded", "skipped", "failed"}, func(cw *csv.Writer) error {
				for _, s := range stats {
					rec := []string{s.List, strconv.Itoa(s.Downloaded), strconv.Itoa(s.Skipped), strconv.Itoa(s.Failed)}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"List", "Downloaded", "Skipped", "Failed"})
			table.Configure(func(cfg *tablewriter.Config) {
				cfg.Row.Alignment.Global = tw.AlignRight
			})
			var data [][]string
			for _, s := range append(stats, coverTotals(stats)) {
				data = append(data, []string{s.List, strconv.Itoa(s.Downloaded), strconv.Itoa(s.Skipped), strconv.Itoa(s.Failed)})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Covers saved under %s in %v\n", cfg.CoversDir, duration.Round(time.Millisecond))
			return err
		}, "Wrote table")
	}
}
