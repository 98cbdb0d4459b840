// Package schema has models, constants and enums shared by every part of gamerank.
package schema

import (
	"fmt"
	"time"
)

// Timestamp is the capture time encoded in a snapshot file name,
// ordered as year, month, day, hour, minute, second.
type Timestamp [6]int

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after o.
func (t Timestamp) Compare(o Timestamp) int {
	for i := range t {
		switch {
		case t[i] < o[i]:
			return -1
		case t[i] > o[i]:
			return 1
		}
	}
	return 0
}

// String renders the timestamp the way it appears in file names.
func (t Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d_%02d-%02d-%02d", t[0], t[1], t[2], t[3], t[4], t[5])
}

// SourceFile is one snapshot of one source's ranking on disk.
type SourceFile struct {
	SourceName string
	Path       string
	CapturedAt *Timestamp // nil when the file name carries no timestamp
	ModTime    time.Time
}

// SourcePick is the single file selected for a source.
type SourcePick struct {
	SourceName string `json:"source_name"`
	Path       string `json:"path"`
}

// SourceRow is one row of a source ranking file. Optional columns default to "".
type SourceRow struct {
	Title        string `csv:"Title"`
	Score        string `csv:"Score"`
	ReleaseDate  string `csv:"ReleaseDate"`
	SourceFile   string `csv:"SourceFile,omitempty"`
	ExternalID   string `csv:"ExternalId,omitempty"`
	GameID       string `csv:"GameId,omitempty"`
	CoverImageID string `csv:"CoverImageId,omitempty"`
}

// RankEntry is a normalized row tagged with where it came from.
type RankEntry struct {
	Title       string `json:"title"`
	Score       int    `json:"score"`
	ReleaseDate string `json:"release_date"`
	SourceName  string `json:"source_name"`
	ListName    string `json:"list_name"`
}

// SourceKey identifies the contributing source; it is qualified by list so that
// the same site contributing to two lists counts as two sources in a global run.
func (e RankEntry) SourceKey() string {
	return e.ListName + "/" + e.SourceName
}

// AggregatedTitle is the merged view of one title across sources.
type AggregatedTitle struct {
	Title         string `json:"title"`
	TotalScore    int    `json:"total_score"`
	ListsAppeared int    `json:"lists_appeared"`
	ReleaseYear   string `json:"release_year"`
}

// DisplayTitle appends the release year when one was resolved.
func (a AggregatedTitle) DisplayTitle() string {
	if a.ReleaseYear == "" {
		return a.Title
	}
	return fmt.Sprintf("%s (%s)", a.Title, a.ReleaseYear)
}

// RankedTitle is one row of an aggregated ranking.
type RankedTitle struct {
	Position      int    `json:"position"`
	Title         string `json:"title"`
	TotalScore    int    `json:"total_score"`
	ListsAppeared int    `json:"lists_appeared"`
}

// ManifestEntry is one row of a list's about.csv.
type ManifestEntry struct {
	SourceName       string `csv:"SourceName" json:"source_name"`
	SourceURL        string `csv:"SourceURL" json:"source_url"`
	SourceID         string `csv:"SourceId" json:"source_id"`
	GeneratedCSVPath string `csv:"GeneratedCsvPath" json:"generated_csv_path"`
}
