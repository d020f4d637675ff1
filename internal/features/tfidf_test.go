// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextVectorizerFit(t *testing.T) {
	v := NewTextVectorizer(FieldStatement, 0, 0.7)
	require.NoError(t, v.Fit([]string{
		"apple banana",
		"apple cherry",
		"banana banana durian",
	}))

	assert.Equal(t, []string{"apple", "banana", "cherry", "durian"}, v.Vocabulary)
	assert.Equal(t, []int{2, 2, 1, 1}, v.DocumentFrequency)
	assert.Equal(t, 3, v.Documents)
	assert.InDelta(t, math.Log(4.0/3.0)+1, v.IDF[0], 1e-12)
	assert.InDelta(t, math.Log(2.0)+1, v.IDF[2], 1e-12)
	assert.Equal(t, []string{"Statement_apple", "Statement_banana", "Statement_cherry", "Statement_durian"}, v.Columns())
}

func TestTextVectorizerTransform(t *testing.T) {
	v := NewTextVectorizer(FieldStatement, 0, 0.7)
	require.NoError(t, v.Fit([]string{
		"apple banana",
		"apple cherry",
		"banana banana durian",
	}))

	idf2 := math.Log(4.0/3.0) + 1
	idf1 := math.Log(2.0) + 1
	banana := 2 * idf2
	durian := 1 * idf1
	norm := math.Sqrt(banana*banana + durian*durian)

	row := v.Transform("banana banana durian")
	require.Len(t, row, 4)
	assert.InDelta(t, 0, row[0], 1e-12)
	assert.InDelta(t, banana/norm, row[1], 1e-12)
	assert.InDelta(t, 0, row[2], 1e-12)
	assert.InDelta(t, durian/norm, row[3], 1e-12)

	var sum float64
	for _, x := range row {
		sum += x * x
	}
	assert.InDelta(t, 1, sum, 1e-12)
}

func TestTextVectorizerUnseenTerms(t *testing.T) {
	v := NewTextVectorizer(FieldContext, 0, 1.0)
	require.NoError(t, v.Fit([]string{"a speech", "a debate"}))

	assert.Equal(t, []float64{0, 0}, v.Transform("an interview on television"))
	assert.Equal(t, []float64{0, 0}, v.Transform(""))
	assert.Len(t, v.Vocabulary, 2, "transform never grows the vocabulary")
}

func TestTextVectorizerMaxDocumentFrequency(t *testing.T) {
	v := NewTextVectorizer(FieldStatement, 0, 0.7)
	require.NoError(t, v.Fit([]string{
		"taxes budget",
		"taxes jobs",
		"taxes wages",
	}))
	assert.NotContains(t, v.Vocabulary, "taxes", "term in every document is pruned")
	assert.Equal(t, []string{"budget", "jobs", "wages"}, v.Vocabulary)
}

func TestTextVectorizerMaxFeatures(t *testing.T) {
	v := NewTextVectorizer(FieldStatement, 2, 1.0)
	require.NoError(t, v.Fit([]string{
		"zebra zebra zebra",
		"apple mango",
		"mango kiwi",
	}))
	// zebra has the highest count; mango beats apple and kiwi.
	assert.Equal(t, []string{"mango", "zebra"}, v.Vocabulary)

	tie := NewTextVectorizer(FieldStatement, 2, 1.0)
	require.NoError(t, tie.Fit([]string{"delta gamma", "beta alpha"}))
	assert.Equal(t, []string{"alpha", "beta"}, tie.Vocabulary, "equal counts break by term")
}

func TestTextVectorizerEmptyVocabulary(t *testing.T) {
	v := NewTextVectorizer(FieldContext, 10, 0.7)
	err := v.Fit([]string{"the and of", "a an the"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}
