// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import "sort"

// OtherCategory is the bucket for fit-time values outside the top N.
const OtherCategory = "Other"

// CategoricalEncoder one-hot encodes a single-valued field. The TopN most
// frequent fit-time values keep their own column and every other fit-time
// value is relabeled OtherCategory. Values never seen at fit time encode to
// an all-zero row unless they exactly match a category name.
type CategoricalEncoder struct {
	Field      string         `json:"field"`
	TopN       int            `json:"top_n"`
	Counts     map[string]int `json:"counts"`
	Top        []string       `json:"top"`
	Categories []string       `json:"categories"`

	top map[string]bool
	pos map[string]int
}

// NewCategoricalEncoder returns an unfitted encoder for field.
func NewCategoricalEncoder(field string, topN int) *CategoricalEncoder {
	return &CategoricalEncoder{Field: field, TopN: topN}
}

// Fit counts values, keeps the TopN most frequent (ties broken by value),
// and fixes the category list as the sorted set of relabeled values.
func (e *CategoricalEncoder) Fit(values []string) {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}

	ranked := make([]string, 0, len(counts))
	for v := range counts {
		ranked = append(ranked, v)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	n := e.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	top := append([]string(nil), ranked[:n]...)
	sort.Strings(top)

	e.Counts = counts
	e.Top = top
	e.index()

	seen := make(map[string]bool)
	categories := make([]string, 0, n+1)
	for _, v := range values {
		c := e.relabel(v)
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	e.Categories = categories
	e.index()
}

func (e *CategoricalEncoder) index() {
	e.top = make(map[string]bool, len(e.Top))
	for _, v := range e.Top {
		e.top[v] = true
	}
	e.pos = make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		e.pos[c] = i
	}
}

// relabel maps v to the category it is encoded as. Values unseen at fit
// time pass through unchanged and only match a column by exact name.
func (e *CategoricalEncoder) relabel(v string) string {
	if e.top[v] {
		return v
	}
	if _, seen := e.Counts[v]; seen {
		return OtherCategory
	}
	return v
}

// Columns returns the output feature names.
func (e *CategoricalEncoder) Columns() []string {
	return prefixed(e.Field, e.Categories)
}

// Width is the number of output columns.
func (e *CategoricalEncoder) Width() int {
	return len(e.Categories)
}

func (e *CategoricalEncoder) encode(v string, dst []float64) {
	if i, ok := e.pos[e.relabel(v)]; ok {
		dst[i] = 1
	}
}

// Transform returns the one-hot row for v.
func (e *CategoricalEncoder) Transform(v string) []float64 {
	row := make([]float64, e.Width())
	e.encode(v, row)
	return row
}
