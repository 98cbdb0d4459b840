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

// RankedTitleView is a ranked title with its consensus label.
type RankedTitleView struct {
	schema.RankedTitle
	Label string `json:"label"`
}

// RankingView is the displayable form of one list's result.
type RankingView struct {
	List         string              `json:"list"`
	SourceCount  int                 `json:"source_count"`
	TitleCount   int                 `json:"title_count"`
	RowCount     int                 `json:"row_count"`
	ScoreSum     int                 `json:"score_sum"`
	Sources      []schema.SourcePick `json:"sources"`
	Unrecognized []string            `json:"unrecognized,omitempty"`
	Titles       []RankedTitleView   `json:"titles"`
}

// NewRankingView labels the first 'limit' titles of a result.
func NewRankingView(result schema.ListResult, limit int) RankingView {
	sources := len(result.Picks)
	ranked := result.Ranking
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	titles := make([]RankedTitleView, len(ranked))
	for i, r := range ranked {
		titles[i] = RankedTitleView{
			RankedTitle: r,
			Label:       contract.GetPlainLabel(r.ListsAppeared, sources),
		}
	}
	picks := result.Picks
	if picks == nil {
		picks = []schema.SourcePick{}
	}
	return RankingView{
		List:         result.Name,
		SourceCount:  sources,
		TitleCount:   len(result.Ranking),
		RowCount:     result.RowCount,
		ScoreSum:     result.ScoreSum,
		Sources:      picks,
		Unrecognized: result.Unrecognized,
		Titles:       titles,
	}
}

// WriteRankingResults outputs a list's ranking, dispatching based on the output format configured.
func WriteRankingResults(result schema.ListResult, cfg *contract.Config, duration time.Duration) error {
	view := NewRankingView(result, cfg.ResultLimit)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, view)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteRows(w, rankedRows(view))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingsXLSX(w, []RankingView{view})
		}, "Wrote XLSX"); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRankingTable(w, view, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Aggregated %s in %v. Cache backend: %s\n", view.List, duration.Round(time.Millisecond), cfg.CacheBackend)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeRankingTable generates and writes the human-readable table.
func writeRankingTable(w io.Writer, view RankingView, cfg *contract.Config) error {
	if cfg.UseEmojis {
		if _, err := fmt.Fprintf(w, "🏆 %s\n", view.List); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(w, "%s\n", view.List); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Title", "Score", "Sources", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTitleWidth(cfg)
	var data [][]string
	for _, t := range view.Titles {
		label := t.Label
		if cfg.UseColors {
			label = contract.GetColorLabel(t.ListsAppeared, view.SourceCount)
		}
		data = append(data, []string{
			strconv.Itoa(t.Position),
			contract.TruncateText(t.Title, maxWidth),
			strconv.Itoa(t.TotalScore),
			fmt.Sprintf("%d/%d", t.ListsAppeared, view.SourceCount),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing top %d of %d titles from %d sources (rows: %d, total score: %d)\n",
		len(view.Titles), view.TitleCount, view.SourceCount, view.RowCount, view.ScoreSum); err != nil {
		return err
	}
	for _, name := range view.Unrecognized {
		if _, err := fmt.Fprintf(w, "Skipped unrecognized file: %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

// writeRankingCSV writes the displayed ranking with its labels.
func writeRankingCSV(w io.Writer, view RankingView) error {
	header := []string{"position", "title", "total_score", "lists_appeared", "label", "list"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, t := range view.Titles {
			rec := []string{
				strconv.Itoa(t.Position),
				t.Title,
				strconv.Itoa(t.TotalScore),
				strconv.Itoa(t.ListsAppeared),
				t.Label,
				view.List,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// rankedRows converts the labeled titles of a view for Parquet output.
func rankedRows(views ...RankingView) []parquet.RankedRow {
	var rows []parquet.RankedRow
	for _, view := range views {
		ranked := make([]schema.RankedTitle, len(view.Titles))
		labels := make(map[int]string, len(view.Titles))
		for i, t := range view.Titles {
			ranked[i] = t.RankedTitle
			labels[t.Position] = t.Label
		}
		rows = append(rows, parquet.ConvertRanking(view.List, ranked, func(r schema.RankedTitle) string {
			return labels[r.Position]
		})...)
	}
	return rows
}
