// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import "sort"

// VocabularyFilter keeps the subject tags that occur at least MinFrequency
// times across the fit-time rows and drops every other tag.
type VocabularyFilter struct {
	MinFrequency int            `json:"min_frequency"`
	Counts       map[string]int `json:"counts"`
	Included     []string       `json:"included"`

	included map[string]bool
}

// NewVocabularyFilter returns an unfitted filter with the given threshold.
func NewVocabularyFilter(minFrequency int) *VocabularyFilter {
	return &VocabularyFilter{MinFrequency: minFrequency}
}

// Fit counts every tag occurrence and freezes the included vocabulary.
// A tag repeated within one row counts once per occurrence.
func (f *VocabularyFilter) Fit(tagLists [][]string) {
	counts := make(map[string]int)
	for _, tags := range tagLists {
		for _, t := range tags {
			counts[t]++
		}
	}
	included := make([]string, 0)
	for t, n := range counts {
		if n >= f.MinFrequency {
			included = append(included, t)
		}
	}
	sort.Strings(included)

	f.Counts = counts
	f.Included = included
	f.index()
}

func (f *VocabularyFilter) index() {
	f.included = make(map[string]bool, len(f.Included))
	for _, t := range f.Included {
		f.included[t] = true
	}
}

// Apply returns the tags of tags that are in the included vocabulary, in
// their original order. The input slice is not modified.
func (f *VocabularyFilter) Apply(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if f.included[t] {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether tag survived the frequency threshold.
func (f *VocabularyFilter) Contains(tag string) bool {
	return f.included[tag]
}
