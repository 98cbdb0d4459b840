package algo

import (
	"testing"

	"github.com/huangsam/gamerank/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankTitles(t *testing.T) {
	titles := []schema.AggregatedTitle{
		{Title: "Zelda", TotalScore: 10, ListsAppeared: 2, ReleaseYear: "1986"},
		{Title: "Chrono Trigger", TotalScore: 18, ListsAppeared: 2, ReleaseYear: "1995"},
		{Title: "Asteroids", TotalScore: 10, ListsAppeared: 1},
		{Title: "asteroids", TotalScore: 10, ListsAppeared: 1},
	}

	ranked := RankTitles(titles)
	require.Len(t, ranked, 4)
	assert.Equal(t, schema.RankedTitle{Position: 1, Title: "Chrono Trigger (1995)", TotalScore: 18, ListsAppeared: 2}, ranked[0])
	assert.Equal(t, "Asteroids", ranked[1].Title)
	assert.Equal(t, "Zelda (1986)", ranked[2].Title)
	assert.Equal(t, "asteroids", ranked[3].Title)

	// input order is untouched
	assert.Equal(t, "Zelda", titles[0].Title)
}

func TestRankTitlesDensePositions(t *testing.T) {
	var titles []schema.AggregatedTitle
	for i := range 40 {
		titles = append(titles, schema.AggregatedTitle{Title: string(rune('A' + i)), TotalScore: i % 3})
	}
	ranked := RankTitles(titles)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Position)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].TotalScore, r.TotalScore)
		}
	}
}

func TestRankTitlesDeterministic(t *testing.T) {
	a := []schema.AggregatedTitle{{Title: "B", TotalScore: 1}, {Title: "A", TotalScore: 1}, {Title: "C", TotalScore: 2}}
	b := []schema.AggregatedTitle{{Title: "C", TotalScore: 2}, {Title: "A", TotalScore: 1}, {Title: "B", TotalScore: 1}}
	assert.Equal(t, RankTitles(a), RankTitles(b))
}

func TestRankTitlesEmpty(t *testing.T) {
	assert.Empty(t, RankTitles(nil))
}

func TestTopN(t *testing.T) {
	ranked := []schema.RankedTitle{{Position: 1}, {Position: 2}, {Position: 3}}
	assert.Len(t, TopN(ranked, 2), 2)
	assert.Len(t, TopN(ranked, 10), 3)
	assert.Equal(t, 0, TotalScore(nil))
	assert.Equal(t, 6, TotalScore([]schema.RankedTitle{{TotalScore: 1}, {TotalScore: 5}}))
}
