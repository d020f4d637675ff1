// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label maps truthfulness labels to class indices. The order is a
// severity scale from true to pants-fire and is not alphabetical.
package label

import (
	"errors"
	"fmt"

	"github.com/pdiddy/veracity/pkg/types"
)

// ErrUnknownLabel is returned for labels outside the six known classes and
// for indices outside [0, NumClasses).
var ErrUnknownLabel = errors.New("unknown label")

// NumClasses is the number of truthfulness classes.
const NumClasses = 6

var order = [NumClasses]types.Label{
	types.LabelTrue,
	types.LabelMostlyTrue,
	types.LabelHalfTrue,
	types.LabelBarelyTrue,
	types.LabelFalse,
	types.LabelPantsFire,
}

// Order returns the labels by class index. The slice is a copy.
func Order() []types.Label {
	return append([]types.Label(nil), order[:]...)
}

var index = func() map[types.Label]int {
	m := make(map[types.Label]int, NumClasses)
	for i, l := range order {
		m[l] = i
	}
	return m
}()

// Encode returns the class index of l.
func Encode(l types.Label) (int, error) {
	i, ok := index[l]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLabel, string(l))
	}
	return i, nil
}

// EncodeAll encodes every label, failing on the first unknown one.
func EncodeAll(labels []types.Label) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		idx, err := Encode(l)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = idx
	}
	return out, nil
}

// Decode returns the label for class index i.
func Decode(i int) (types.Label, error) {
	if i < 0 || i >= NumClasses {
		return "", fmt.Errorf("%w: index %d", ErrUnknownLabel, i)
	}
	return order[i], nil
}

// Valid reports whether l is one of the six known labels.
func Valid(l types.Label) bool {
	_, ok := index[l]
	return ok
}
