// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func speakerValues() []string {
	var v []string
	add := func(name string, n int) {
		for i := 0; i < n; i++ {
			v = append(v, name)
		}
	}
	add("barack-obama", 5)
	add("donald-trump", 4)
	add("hillary-clinton", 3)
	add("scott-walker", 1)
	add("rick-perry", 1)
	return v
}

func TestCategoricalEncoderFit(t *testing.T) {
	e := NewCategoricalEncoder(FieldSpeaker, 2)
	e.Fit(speakerValues())

	assert.Equal(t, []string{"barack-obama", "donald-trump"}, e.Top)
	assert.Equal(t, []string{"Other", "barack-obama", "donald-trump"}, e.Categories)
	assert.Equal(t, []string{"Speaker_Other", "Speaker_barack-obama", "Speaker_donald-trump"}, e.Columns())
}

func TestCategoricalEncoderTransform(t *testing.T) {
	e := NewCategoricalEncoder(FieldSpeaker, 2)
	e.Fit(speakerValues())

	tests := []struct {
		name  string
		value string
		want  []float64
	}{
		{"top value", "donald-trump", []float64{0, 0, 1}},
		{"seen long-tail value becomes Other", "rick-perry", []float64{1, 0, 0}},
		{"unseen value is all zero", "elizabeth-warren", []float64{0, 0, 0}},
		{"literal Other matches Other", "Other", []float64{1, 0, 0}},
		{"case differs from category", "Donald-Trump", []float64{0, 0, 0}},
		{"empty value", "", []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Transform(tt.value))
		})
	}
}

func TestCategoricalEncoderTiesBreakByValue(t *testing.T) {
	e := NewCategoricalEncoder(FieldParty, 2)
	e.Fit([]string{"republican", "democrat", "independent", "democrat", "republican", "independent"})

	assert.Equal(t, []string{"democrat", "independent"}, e.Top)
}

func TestCategoricalEncoderNoOtherWhenFewValues(t *testing.T) {
	e := NewCategoricalEncoder(FieldParty, 5)
	e.Fit([]string{"republican", "democrat", "republican"})

	assert.Equal(t, []string{"democrat", "republican"}, e.Categories)
	assert.Equal(t, []float64{0, 0}, e.Transform("libertarian"))
	assert.Equal(t, []float64{0, 0}, e.Transform("Other"))
}
