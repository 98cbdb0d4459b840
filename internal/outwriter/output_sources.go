package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteSourcesIndexResults outputs the source index, dispatching based on the output format configured.
func WriteSourcesIndexResults(entries []schema.SourceIndexEntry, cfg *contract.Config) error {
	limited := entries
	if cfg.ResultLimit > 0 && len(limited) > cfg.ResultLimit {
		limited = limited[:cfg.ResultLimit]
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if limited == nil {
				return writeJSON(w, []schema.SourceIndexEntry{})
			}
			return writeJSON(w, limited)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"source_name", "count", "datasets"}, func(cw *csv.Writer) error {
				for _, e := range limited {
					if err := cw.Write([]string{e.SourceName, strconv.Itoa(e.Count), strings.Join(e.Datasets, ";")}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Source", "Lists", "Datasets"})
			var data [][]string
			for _, e := range limited {
				data = append(data, []string{
					e.SourceName,
					strconv.Itoa(e.Count),
					contract.TruncateText(strings.Join(e.Datasets, ", "), GetMaxTableTitleWidth(cfg)),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d of %d sources\n", len(limited), len(entries))
			return err
		}, "Wrote table")
	}
}
