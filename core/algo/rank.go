// Package algo orders aggregated titles into a ranking.
package algo

import (
	"sort"

	"github.com/huangsam/gamerank/schema"
)

// RankTitles sorts titles by total score in descending order, breaking ties
// by raw title in byte order, and assigns dense positions starting at 1.
// The input slice is not modified.
func RankTitles(titles []schema.AggregatedTitle) []schema.RankedTitle {
	sorted := make([]schema.AggregatedTitle, len(titles))
	copy(sorted, titles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalScore != sorted[j].TotalScore {
			return sorted[i].TotalScore > sorted[j].TotalScore
		}
		return sorted[i].Title < sorted[j].Title
	})

	ranked := make([]schema.RankedTitle, len(sorted))
	for i, t := range sorted {
		ranked[i] = schema.RankedTitle{
			Position:      i + 1,
			Title:         t.DisplayTitle(),
			TotalScore:    t.TotalScore,
			ListsAppeared: t.ListsAppeared,
		}
	}
	return ranked
}

// TopN returns the first 'limit' ranked titles. If limit is greater than
// the number of titles, all of them are returned.
func TopN(ranked []schema.RankedTitle, limit int) []schema.RankedTitle {
	if limit >= 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}

// TotalScore sums the scores of a ranking.
func TotalScore(ranked []schema.RankedTitle) int {
	sum := 0
	for _, r := range ranked {
		sum += r.TotalScore
	}
	return sum
}
