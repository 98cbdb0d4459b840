// Package agg folds normalized ranking entries into per-title totals.
package agg

import (
	"strings"

	"github.com/huangsam/gamerank/schema"
)

// titleState is the running total of one title.
type titleState struct {
	result  schema.AggregatedTitle
	sources map[string]struct{}
}

// Aggregator merges entries from every selected source of a run.
// The zero value is not usable; call New.
type Aggregator struct {
	order  []string
	titles map[string]*titleState
}

// New returns an empty Aggregator scoped to one run.
func New() *Aggregator {
	return &Aggregator{titles: make(map[string]*titleState)}
}

// Add folds one entry. The score always accumulates; the source counts once
// per title; the release year is fixed by the first entry seen for the title.
func (a *Aggregator) Add(e schema.RankEntry) {
	st, ok := a.titles[e.Title]
	if !ok {
		st = &titleState{
			result: schema.AggregatedTitle{
				Title:       e.Title,
				ReleaseYear: ReleaseYear(e.ReleaseDate),
			},
			sources: make(map[string]struct{}),
		}
		a.titles[e.Title] = st
		a.order = append(a.order, e.Title)
	}

	st.result.TotalScore += e.Score
	if _, seen := st.sources[e.SourceKey()]; !seen {
		st.sources[e.SourceKey()] = struct{}{}
		st.result.ListsAppeared++
	}
}

// AddAll folds a batch of entries in order.
func (a *Aggregator) AddAll(entries []schema.RankEntry) {
	for _, e := range entries {
		a.Add(e)
	}
}

// Titles returns the aggregated titles in first-seen order.
func (a *Aggregator) Titles() []schema.AggregatedTitle {
	out := make([]schema.AggregatedTitle, 0, len(a.order))
	for _, title := range a.order {
		out = append(out, a.titles[title].result)
	}
	return out
}

// Len returns the number of distinct titles.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// ReleaseYear returns the text of a release date before its first '-'.
func ReleaseYear(releaseDate string) string {
	year, _, _ := strings.Cut(releaseDate, "-")
	return strings.TrimSpace(year)
}

// Aggregate is a convenience for folding a complete slice.
func Aggregate(entries []schema.RankEntry) []schema.AggregatedTitle {
	a := New()
	a.AddAll(entries)
	return a.Titles()
}
