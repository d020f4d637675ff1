// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classifier provides the supervised multi-class learner that sits
// behind the feature pipeline. Callers depend on the Classifier interface;
// Softmax is the bundled implementation.
package classifier

import "errors"

var (
	// ErrNotFitted is returned by Predict before Fit or Load.
	ErrNotFitted = errors.New("classifier is not fitted")

	// ErrDimension is returned when a row width differs from the fit width.
	ErrDimension = errors.New("feature width mismatch")

	// ErrInvalidModel is returned by Load when a saved model holds values
	// that cannot produce probabilities, such as a zero scale.
	ErrInvalidModel = errors.New("invalid model parameters")

	// ErrNoData is returned by Fit for empty or mismatched training data.
	ErrNoData = errors.New("no training data")
)

// Classifier learns from a feature matrix and class indices and predicts
// class indices for new rows.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) ([]int, error)
}
