// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"sort"
	"time"

	"github.com/pdiddy/veracity/pkg/types"
)

// Summary is a human-readable digest of fitted state.
type Summary struct {
	Version   int                 `json:"version" yaml:"version"`
	CreatedAt time.Time           `json:"created_at" yaml:"created_at"`
	Config    types.FeatureConfig `json:"config" yaml:"config"`
	Width     int                 `json:"width" yaml:"width"`
	Blocks    []BlockSummary      `json:"blocks" yaml:"blocks"`

	SubjectTagsSeen int            `json:"subject_tags_seen" yaml:"subject_tags_seen"`
	SubjectTags     []TagCount     `json:"subject_tags" yaml:"subject_tags"`
	Speakers        []string       `json:"speakers" yaml:"speakers"`
	Parties         []string       `json:"parties" yaml:"parties"`
	StatementTerms  []string       `json:"statement_terms" yaml:"statement_terms"`
	ContextTerms    []string       `json:"context_terms" yaml:"context_terms"`
	Documents       map[string]int `json:"documents" yaml:"documents"`
}

// BlockSummary gives the width of one feature block.
type BlockSummary struct {
	Field string `json:"field" yaml:"field"`
	Width int    `json:"width" yaml:"width"`
}

// TagCount pairs an included subject tag with its fit-time frequency.
type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// Summarize digests s. Included subject tags are listed by descending
// frequency, ties by name.
func Summarize(s *State) Summary {
	sum := Summary{
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		Config:          s.Config,
		SubjectTagsSeen: len(s.SubjectFilter.Counts),
		Speakers:        append([]string(nil), s.Speaker.Categories...),
		Parties:         append([]string(nil), s.Party.Categories...),
		StatementTerms:  append([]string(nil), s.Statement.Vocabulary...),
		ContextTerms:    append([]string(nil), s.Context.Vocabulary...),
		Documents: map[string]int{
			s.Statement.Field: s.Statement.Documents,
			s.Context.Field:   s.Context.Documents,
		},
	}
	for _, b := range s.Blocks {
		sum.Blocks = append(sum.Blocks, BlockSummary{Field: b.Field, Width: len(b.Columns)})
		sum.Width += len(b.Columns)
	}
	for _, t := range s.SubjectFilter.Included {
		sum.SubjectTags = append(sum.SubjectTags, TagCount{Tag: t, Count: s.SubjectFilter.Counts[t]})
	}
	sort.SliceStable(sum.SubjectTags, func(i, j int) bool {
		if sum.SubjectTags[i].Count != sum.SubjectTags[j].Count {
			return sum.SubjectTags[i].Count > sum.SubjectTags[j].Count
		}
		return sum.SubjectTags[i].Tag < sum.SubjectTags[j].Tag
	})
	return sum
}
