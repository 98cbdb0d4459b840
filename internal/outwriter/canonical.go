package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/gamerank/schema"
	"go.uber.org/zap"
)

// WriteRankingCSV writes an aggregated ranking in its canonical column order.
func WriteRankingCSV(w io.Writer, ranked []schema.RankedTitle) error {
	records := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		records = append(records, []string{
			strconv.Itoa(r.Position),
			r.Title,
			strconv.Itoa(r.TotalScore),
			strconv.Itoa(r.ListsAppeared),
		})
	}
	return writeCanonicalCSV(w, schema.RankingHeader, records)
}

// WriteManifestCSV writes the per-list source manifest.
func WriteManifestCSV(w io.Writer, entries []schema.ManifestEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{e.SourceName, e.SourceURL, e.SourceID, e.GeneratedCSVPath})
	}
	return writeCanonicalCSV(w, schema.ManifestHeader, records)
}

// WriteSourcesIndexCSV writes the index of sources across lists.
func WriteSourcesIndexCSV(w io.Writer, entries []schema.SourceIndexEntry) error {
	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, []string{e.SourceName, strconv.Itoa(e.Count), strings.Join(e.Datasets, ";")})
	}
	return writeCanonicalCSV(w, schema.SourcesIndexHeader, records)
}

// WriteListsManifestJSON writes the lists manifest as indented JSON.
func WriteListsManifestJSON(w io.Writer, m schema.ListsManifest) error {
	if m.Lists == nil {
		m.Lists = []string{}
	}
	return writeJSON(w, m)
}

// SaveRanking writes aggregated-list.csv at path.
func SaveRanking(path string, ranked []schema.RankedTitle) error {
	return saveCanonical(path, "ranking", func(w io.Writer) error {
		return WriteRankingCSV(w, ranked)
	})
}

// SaveManifest writes about.csv at path.
func SaveManifest(path string, entries []schema.ManifestEntry) error {
	return saveCanonical(path, "manifest", func(w io.Writer) error {
		return WriteManifestCSV(w, entries)
	})
}

// SaveSourcesIndex writes all_sources.csv at path.
func SaveSourcesIndex(path string, entries []schema.SourceIndexEntry) error {
	return saveCanonical(path, "sources index", func(w io.Writer) error {
		return WriteSourcesIndexCSV(w, entries)
	})
}

// SaveListsManifest writes _manifest.json at path.
func SaveListsManifest(path string, m schema.ListsManifest) error {
	return saveCanonical(path, "lists manifest", func(w io.Writer) error {
		return WriteListsManifestJSON(w, m)
	})
}

// saveCanonical saves a file and reports it the same way display output does.
func saveCanonical(path, what string, writer func(io.Writer) error) error {
	if err := saveFile(path, writer); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", what, path, err)
	}
	zap.L().Debug("Saved file", zap.String("kind", what), zap.String("path", path))
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", what, path)
	return nil
}
