package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"github.com/olekukonko/tablewriter"
)

// WriteOrganizeResults outputs the planned or performed moves, dispatching based on the output format configured.
func WriteOrganizeResults(moves []schema.OrganizeMove, cfg *contract.Config) error {
	if moves == nil {
		moves = []schema.OrganizeMove{}
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, map[string]any{
				"dry_run": cfg.DryRun,
				"moves":   moves,
			})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"from", "to"}, func(cw *csv.Writer) error {
				for _, m := range moves {
					if err := cw.Write([]string{m.From, m.To}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"From", "To"})
			maxWidth := GetMaxTableTitleWidth(cfg)
			var data [][]string
			for _, m := range moves {
				data = append(data, []string{
					contract.TruncateText(relToRoot(cfg.Root, m.From), maxWidth),
					contract.TruncateText(relToRoot(cfg.Root, m.To), maxWidth),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			verb := "Moved"
			if cfg.DryRun {
				verb = "Would move"
			}
			_, err := fmt.Fprintf(w, "%s %d files\n", verb, len(moves))
			return err
		}, "Wrote table")
	}
}

// relToRoot shortens a path for display when it lies under root.
func relToRoot(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
