package schema

import "time"

// RunRecord represents a row from the gamerank_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	ListName      string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	SourceCount   int32
	TitleCount    int32
	ConfigParams  *string
}

// RunTitleRecord represents a row from the gamerank_run_titles table.
type RunTitleRecord struct {
	RunID         int64
	Position      int32
	Title         string
	TotalScore    int64
	ListsAppeared int32
}
