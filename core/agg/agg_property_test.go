package agg

import (
	"math/rand"
	"testing"

	"github.com/huangsam/gamerank/schema"
	"github.com/stretchr/testify/assert"
)

// randomEntries builds a reproducible batch drawn from a small title pool.
func randomEntries(seed int64, n int) []schema.RankEntry {
	r := rand.New(rand.NewSource(seed))
	titles := []string{"Doom", "Tetris", "Myst", "Zork", "Ico"}
	sources := []string{"IGN", "Edge", "PC Gamer"}
	dates := []string{"1980-01-01", "1993-12-10", ""}
	out := make([]schema.RankEntry, n)
	for i := range out {
		out[i] = schema.RankEntry{
			Title:       titles[r.Intn(len(titles))],
			Score:       r.Intn(100),
			ReleaseDate: dates[r.Intn(len(dates))],
			SourceName:  sources[r.Intn(len(sources))],
			ListName:    "all_time",
		}
	}
	return out
}

func TestAggregateConservesScore(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		entries := randomEntries(seed, 200)
		want := 0
		for _, e := range entries {
			want += e.Score
		}
		got := 0
		for _, a := range Aggregate(entries) {
			got += a.TotalScore
		}
		assert.Equal(t, want, got, "seed %d", seed)
	}
}

func TestAggregateListsAppearedBounded(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		entries := randomEntries(seed, 100)
		distinct := map[string]map[string]struct{}{}
		for _, e := range entries {
			if distinct[e.Title] == nil {
				distinct[e.Title] = map[string]struct{}{}
			}
			distinct[e.Title][e.SourceKey()] = struct{}{}
		}
		for _, a := range Aggregate(entries) {
			assert.Equal(t, len(distinct[a.Title]), a.ListsAppeared, "seed %d title %s", seed, a.Title)
		}
	}
}
