package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampCompare(t *testing.T) {
	base := Timestamp{2025, 1, 17, 20, 8, 18}
	tests := []struct {
		name  string
		other Timestamp
		want  int
	}{
		{"equal", Timestamp{2025, 1, 17, 20, 8, 18}, 0},
		{"later second", Timestamp{2025, 1, 17, 20, 8, 19}, -1},
		{"earlier year", Timestamp{2024, 12, 31, 23, 59, 59}, 1},
		{"later month beats earlier day", Timestamp{2025, 2, 1, 0, 0, 0}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Compare(tt.other))
		})
	}
	assert.Equal(t, "2025-01-17_20-08-18", base.String())
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Chrono Trigger (1995)", AggregatedTitle{Title: "Chrono Trigger", ReleaseYear: "1995"}.DisplayTitle())
	assert.Equal(t, "Tetris", AggregatedTitle{Title: "Tetris"}.DisplayTitle())
}

func TestSourceKey(t *testing.T) {
	a := RankEntry{ListName: "rpg", SourceName: "IGN"}
	b := RankEntry{ListName: "all_time", SourceName: "IGN"}
	assert.NotEqual(t, a.SourceKey(), b.SourceKey())
	assert.Equal(t, "rpg/IGN", a.SourceKey())
}

func TestCoverSizeVariants(t *testing.T) {
	assert.Equal(t, []CoverSize{SmallCover, BigCover}, BothCovers.Variants())
	assert.Equal(t, []CoverSize{BigCover}, BigCover.Variants())
}

func TestCoverStatsAdd(t *testing.T) {
	var s CoverStats
	s.Add(CoverResult{Outcome: CoverDownloaded})
	s.Add(CoverResult{Outcome: CoverSkipped})
	s.Add(CoverResult{Outcome: CoverSkipped})
	s.Add(CoverResult{Outcome: CoverFailed, Err: errors.New("boom")})
	assert.Equal(t, CoverStats{Downloaded: 1, Skipped: 2, Failed: 1}, s)
}
