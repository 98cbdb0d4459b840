package source

import (
	"testing"

	"github.com/huangsam/gamerank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"timestamped", "IGN - 2025-01-17_20-08-18.csv", "IGN", true},
		{"free text rest", "GameSpot - Top 100.csv", "GameSpot", true},
		{"first separator wins", "PC Gamer - UK - 2024.csv", "PC Gamer", true},
		{"no separator", "IGN.csv", "", false},
		{"hyphen without spaces", "IGN-2025.csv", "", false},
		{"blank source", " - 2025-01-17_20-08-18.csv", "", false},
		{"separator only in extension-less stem", "Edge - Top 50", "Edge", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSourceName(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("IGN - 2025-01-17_20-08-18.csv")
	require.True(t, ok)
	assert.Equal(t, schema.Timestamp{2025, 1, 17, 20, 8, 18}, *ts)

	ts, ok = ParseTimestamp("IGN - 2025-01-17_20-08-18.CSV")
	require.True(t, ok)
	assert.Equal(t, 2025, ts[0])

	for _, name := range []string{
		"IGN.csv",
		"IGN - 2025-01-17.csv",
		"IGN - 2025-01-17_20-08-18.csv.bak",
		"IGN 2025-01-17_20-08-18.csv",
		"IGN - 25-01-17_20-08-18.csv",
	} {
		_, ok := ParseTimestamp(name)
		assert.False(t, ok, name)
	}
}

func TestTimestampsOrderChronologically(t *testing.T) {
	older, ok := ParseTimestamp("IGN - 2024-12-31_23-59-59.csv")
	require.True(t, ok)
	newer, ok := ParseTimestamp("IGN - 2025-01-01_00-00-00.csv")
	require.True(t, ok)
	assert.Equal(t, -1, older.Compare(*newer))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("aggregated-list.csv"))
	assert.True(t, IsReserved("Aggregated-List.CSV"))
	assert.True(t, IsReserved("ABOUT.csv"))
	assert.False(t, IsReserved("IGN - about.csv"))
}

func TestIsCSV(t *testing.T) {
	assert.True(t, IsCSV("a.csv"))
	assert.True(t, IsCSV("a.CsV"))
	assert.False(t, IsCSV("a.txt"))
	assert.False(t, IsCSV("csv"))
}
