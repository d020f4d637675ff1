// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned by TextVectorizer.Fit when no term
// survives stop-word removal and document-frequency pruning.
var ErrEmptyVocabulary = errors.New("no terms remain after pruning")

// TextVectorizer computes L2-normalized TF-IDF rows over a vocabulary
// learned at fit time. The vocabulary is sorted lexicographically.
type TextVectorizer struct {
	Field             string    `json:"field"`
	MaxFeatures       int       `json:"max_features"`
	MaxDF             float64   `json:"max_df"`
	Documents         int       `json:"documents"`
	Vocabulary        []string  `json:"vocabulary"`
	DocumentFrequency []int     `json:"document_frequency"`
	IDF               []float64 `json:"idf"`

	pos map[string]int
}

// NewTextVectorizer returns an unfitted vectorizer. maxFeatures <= 0 means
// no cap; maxDF is a fraction of the fit-time documents.
func NewTextVectorizer(field string, maxFeatures int, maxDF float64) *TextVectorizer {
	return &TextVectorizer{Field: field, MaxFeatures: maxFeatures, MaxDF: maxDF}
}

// Fit learns the vocabulary, document frequencies and idf weights.
//
// Terms in more than MaxDF*len(corpus) documents are dropped first; the
// remainder is capped at MaxFeatures by total term count (ties by term).
// idf is ln((1+n)/(1+df)) + 1.
func (v *TextVectorizer) Fit(corpus []string) error {
	df := make(map[string]int)
	tf := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range analyze(doc) {
			tf[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	maxDocCount := v.MaxDF * float64(len(corpus))
	terms := make([]string, 0, len(df))
	for term, n := range df {
		if float64(n) <= maxDocCount {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("fitting %s vectorizer: %w", v.Field, ErrEmptyVocabulary)
	}

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if tf[terms[i]] != tf[terms[j]] {
				return tf[terms[i]] > tf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	v.Documents = len(corpus)
	v.Vocabulary = terms
	v.DocumentFrequency = make([]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.DocumentFrequency[i] = df[term]
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	v.index()
	return nil
}

func (v *TextVectorizer) index() {
	v.pos = make(map[string]int, len(v.Vocabulary))
	for i, term := range v.Vocabulary {
		v.pos[term] = i
	}
}

// Columns returns the output feature names.
func (v *TextVectorizer) Columns() []string {
	return prefixed(v.Field, v.Vocabulary)
}

// Width is the number of output columns.
func (v *TextVectorizer) Width() int {
	return len(v.Vocabulary)
}

// encode writes the TF-IDF row for text into the zeroed dst. Terms outside
// the vocabulary contribute nothing.
func (v *TextVectorizer) encode(text string, dst []float64) {
	for _, term := range analyze(text) {
		if i, ok := v.pos[term]; ok {
			dst[i]++
		}
	}
	var sum float64
	for i := range dst {
		dst[i] *= v.IDF[i]
		sum += dst[i] * dst[i]
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range dst {
		dst[i] /= norm
	}
}

// Transform returns the TF-IDF row for text.
func (v *TextVectorizer) Transform(text string) []float64 {
	row := make([]float64, v.Width())
	v.encode(text, row)
	return row
}
