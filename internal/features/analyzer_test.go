// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Senor Cafe naive", stripAccents("Señor Café naïve"))
	assert.Equal(t, "plain ascii", stripAccents("plain ascii"))
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"drops stop words", "The number of illegal immigrants could be 3 million.", []string{"number", "illegal", "immigrants", "million"}},
		{"drops single characters", "a b cd 7 42", []string{"cd", "42"}},
		{"lowercases and strips accents", "Économie ÉCONOMIE", []string{"economie", "economie"}},
		{"splits on punctuation", "tax-cuts, jobs;wages", []string{"tax", "cuts", "jobs", "wages"}},
		{"empty text", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"economy", "jobs", "health care"}, splitTags(" Economy,JOBS , Health Care"))
	assert.Equal(t, []string{"taxes"}, splitTags("taxes,,  ,"))
	assert.Empty(t, splitTags(""))
}
