// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import "sort"

// SubjectEncoder multi-hot encodes filtered tag lists over the distinct
// tags seen at fit time. Columns are in lexicographic tag order.
type SubjectEncoder struct {
	Field   string   `json:"field"`
	Classes []string `json:"classes"`

	pos map[string]int
}

// NewSubjectEncoder returns an unfitted encoder whose columns are prefixed
// with field.
func NewSubjectEncoder(field string) *SubjectEncoder {
	return &SubjectEncoder{Field: field}
}

// Fit records the distinct tags of tagLists as the column set.
func (e *SubjectEncoder) Fit(tagLists [][]string) {
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, tags := range tagLists {
		for _, t := range tags {
			if !seen[t] {
				seen[t] = true
				classes = append(classes, t)
			}
		}
	}
	sort.Strings(classes)
	e.Classes = classes
	e.index()
}

func (e *SubjectEncoder) index() {
	e.pos = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.pos[c] = i
	}
}

// Columns returns the output feature names.
func (e *SubjectEncoder) Columns() []string {
	return prefixed(e.Field, e.Classes)
}

// Width is the number of output columns.
func (e *SubjectEncoder) Width() int {
	return len(e.Classes)
}

// encode writes the multi-hot row for tags into dst, which must be zeroed
// and Width() long. Unknown tags are ignored.
func (e *SubjectEncoder) encode(tags []string, dst []float64) {
	for _, t := range tags {
		if i, ok := e.pos[t]; ok {
			dst[i] = 1
		}
	}
}

// Transform returns one multi-hot row per tag list.
func (e *SubjectEncoder) Transform(tagLists [][]string) [][]float64 {
	rows := make([][]float64, len(tagLists))
	for i, tags := range tagLists {
		rows[i] = make([]float64, e.Width())
		e.encode(tags, rows[i])
	}
	return rows
}

func prefixed(field string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = field + "_" + v
	}
	return out
}
