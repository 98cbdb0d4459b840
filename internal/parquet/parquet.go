// Package parquet provides data structures and functions for exporting gamerank
// rankings and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gamerank/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single aggregation run with metadata.
// This struct maps to the gamerank_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// ListName is the list that was aggregated, or _global
	ListName string `parquet:"list_name,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// SourceCount is the number of sources selected
	SourceCount int32 `parquet:"source_count,snappy"`

	// TitleCount is the number of distinct titles ranked
	TitleCount int32 `parquet:"title_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunTitle is one ranked row recorded for a run.
// This struct maps to the gamerank_run_titles database table.
type RunTitle struct {
	RunID         int64  `parquet:"run_id,snappy"`
	Position      int32  `parquet:"position,snappy"`
	Title         string `parquet:"title,snappy"`
	TotalScore    int64  `parquet:"total_score,snappy"`
	ListsAppeared int32  `parquet:"lists_appeared,snappy"`
}

// RankedRow is one row of a ranking as displayed, with its consensus label.
type RankedRow struct {
	Position      int32  `parquet:"position,snappy"`
	Title         string `parquet:"title,snappy"`
	TotalScore    int64  `parquet:"total_score,snappy"`
	ListsAppeared int32  `parquet:"lists_appeared,snappy"`
	Label         string `parquet:"label,snappy"`
	ListName      string `parquet:"list_name,snappy"`
}

// WriteRows writes rows of any tagged struct type to w.
func WriteRows[T any](w io.Writer, rows []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRunTitlesParquet writes a slice of RunTitle structs to a Parquet file.
func WriteRunTitlesParquet(data []RunTitle, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			ListName:      record.ListName,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			SourceCount:   record.SourceCount,
			TitleCount:    record.TitleCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunTitleRecords converts schema.RunTitleRecord to RunTitle for Parquet export.
func ConvertRunTitleRecords(records []schema.RunTitleRecord) []RunTitle {
	result := make([]RunTitle, len(records))
	for i, record := range records {
		result[i] = RunTitle(record)
	}
	return result
}

// ConvertRanking converts a ranking to displayable rows. label computes the
// consensus label of a title.
func ConvertRanking(listName string, ranked []schema.RankedTitle, label func(schema.RankedTitle) string) []RankedRow {
	result := make([]RankedRow, len(ranked))
	for i, r := range ranked {
		result[i] = RankedRow{
			Position:      int32(r.Position),
			Title:         r.Title,
			TotalScore:    int64(r.TotalScore),
			ListsAppeared: int32(r.ListsAppeared),
			Label:         label(r),
			ListName:      listName,
		}
	}
	return result
}
