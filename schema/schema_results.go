package schema

import "time"

// GlobalListName labels the ranking built over the union of all lists.
const GlobalListName = "_global"

// Selection is what the source selector found in one list directory.
type Selection struct {
	Picks        []SourcePick `json:"picks"`
	Unrecognized []string     `json:"unrecognized,omitempty"` // file names not attributable to a source
}

// ListResult summarizes one aggregation run over a list.
type ListResult struct {
	Name         string        `json:"name"`
	Dir          string        `json:"dir"`
	Picks        []SourcePick  `json:"picks"`
	Unrecognized []string      `json:"unrecognized,omitempty"`
	RowCount     int           `json:"row_count"`
	ScoreSum     int           `json:"score_sum"`
	Ranking      []RankedTitle `json:"ranking"`
	Entries      []RankEntry   `json:"-"`
}

// ListFailure records a list whose run was aborted.
type ListFailure struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// BatchResult summarizes a run over every list under a root.
type BatchResult struct {
	Lists    []ListResult  `json:"lists"`
	Failures []ListFailure `json:"failures,omitempty"`
	Global   *ListResult   `json:"global,omitempty"`
}

// SourceIndexEntry is one row of all_sources.csv.
type SourceIndexEntry struct {
	SourceName string   `json:"source_name"`
	Count      int      `json:"count"`
	Datasets   []string `json:"datasets"`
}

// ListsManifest is the content of _manifest.json.
type ListsManifest struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Lists       []string  `json:"lists"`
}

// CoverTask is one image to fetch.
type CoverTask struct {
	Code string
	Size CoverSize
	URL  string
	Dest string
}

// CoverResult is the outcome of one CoverTask.
type CoverResult struct {
	Task    CoverTask
	Outcome CoverOutcome
	Err     error
}

// CoverStats counts outcomes for one list.
type CoverStats struct {
	List       string `json:"list"`
	Downloaded int    `json:"downloaded"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// Add folds one result into the counters.
func (s *CoverStats) Add(r CoverResult) {
	switch r.Outcome {
	case CoverDownloaded:
		s.Downloaded++
	case CoverSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// OrganizeMove is one planned or performed file move.
type OrganizeMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}
