// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/veracity/pkg/types"
)

// Softmax is a multinomial logistic regression trained with full-batch
// gradient descent on standardized features. Training is deterministic:
// weights start at zero and rows are visited in order.
type Softmax struct {
	Classes      int         `json:"classes"`
	Features     int         `json:"features"`
	Epochs       int         `json:"epochs"`
	LearningRate float64     `json:"learning_rate"`
	L2           float64     `json:"l2"`
	Mean         []float64   `json:"mean"`
	Scale        []float64   `json:"scale"`
	Weights      [][]float64 `json:"weights"`
	Bias         []float64   `json:"bias"`
}

// NewSoftmax returns an unfitted classifier over classes labels.
func NewSoftmax(classes int, cfg types.ClassifierConfig) *Softmax {
	return &Softmax{
		Classes:      classes,
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		L2:           cfg.L2,
	}
}

// Fitted reports whether the model has weights.
func (m *Softmax) Fitted() bool {
	return m.Weights != nil
}

// Fit learns weights from X and y. Every y must be in [0, Classes).
func (m *Softmax) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrNoData, len(X), len(y))
	}
	d := len(X[0])
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), d)
		}
		if y[i] < 0 || y[i] >= m.Classes {
			return fmt.Errorf("row %d: class %d outside [0,%d)", i, y[i], m.Classes)
		}
	}

	m.Features = d
	m.standardize(X)

	n := float64(len(X))
	m.Weights = make([][]float64, m.Classes)
	for k := range m.Weights {
		m.Weights[k] = make([]float64, d)
	}
	m.Bias = make([]float64, m.Classes)

	gradW := make([][]float64, m.Classes)
	for k := range gradW {
		gradW[k] = make([]float64, d)
	}
	gradB := make([]float64, m.Classes)
	z := make([]float64, d)
	probs := make([]float64, m.Classes)

	for epoch := 0; epoch < m.Epochs; epoch++ {
		for k := range gradW {
			floats.Scale(0, gradW[k])
		}
		floats.Scale(0, gradB)

		for i, row := range X {
			m.scaled(row, z)
			m.probabilities(z, probs)
			probs[y[i]]--
			for k, p := range probs {
				floats.AddScaled(gradW[k], p, z)
				gradB[k] += p
			}
		}

		for k := range m.Weights {
			floats.Scale(1/n, gradW[k])
			floats.AddScaled(gradW[k], m.L2, m.Weights[k])
			floats.AddScaled(m.Weights[k], -m.LearningRate, gradW[k])
			m.Bias[k] -= m.LearningRate * gradB[k] / n
		}
	}
	return nil
}

// standardize learns per-column mean and scale. Constant columns get
// scale 1 so they pass through centered.
func (m *Softmax) standardize(X [][]float64) {
	d := m.Features
	n := float64(len(X))
	m.Mean = make([]float64, d)
	m.Scale = make([]float64, d)
	for _, row := range X {
		floats.Add(m.Mean, row)
	}
	floats.Scale(1/n, m.Mean)
	for _, row := range X {
		for j, x := range row {
			diff := x - m.Mean[j]
			m.Scale[j] += diff * diff
		}
	}
	for j := range m.Scale {
		sd := math.Sqrt(m.Scale[j] / n)
		if sd == 0 {
			sd = 1
		}
		m.Scale[j] = sd
	}
}

func (m *Softmax) scaled(row, dst []float64) {
	for j, x := range row {
		dst[j] = (x - m.Mean[j]) / m.Scale[j]
	}
}

// probabilities writes the class distribution for the standardized row z.
func (m *Softmax) probabilities(z, dst []float64) {
	for k := range dst {
		dst[k] = floats.Dot(m.Weights[k], z) + m.Bias[k]
	}
	lse := floats.LogSumExp(dst)
	for k := range dst {
		dst[k] = math.Exp(dst[k] - lse)
	}
}

// PredictProba returns the class distribution for each row.
func (m *Softmax) PredictProba(X [][]float64) ([][]float64, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	z := make([]float64, m.Features)
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != m.Features {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), m.Features)
		}
		m.scaled(row, z)
		out[i] = make([]float64, m.Classes)
		m.probabilities(z, out[i])
	}
	return out, nil
}

// Predict returns the most probable class for each row.
func (m *Softmax) Predict(X [][]float64) ([]int, error) {
	probs, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probs))
	for i, p := range probs {
		out[i] = floats.MaxIdx(p)
	}
	return out, nil
}

// Save writes the fitted model to path as JSON. The file is written under a
// temporary name and renamed into place, so a reader sees either the old
// model or the new one.
func (m *Softmax) Save(path string) error {
	if !m.Fitted() {
		return ErrNotFitted
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".model-*.json")
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("installing model file: %w", err)
	}
	return nil
}

// Write encodes the model as JSON.
func (m *Softmax) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// Load reads a model written by Save and checks its shape.
func Load(path string) (*Softmax, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	var m Softmax
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

func (m *Softmax) validate() error {
	if !m.Fitted() {
		return ErrNotFitted
	}
	if m.Classes <= 0 || len(m.Weights) != m.Classes || len(m.Bias) != m.Classes {
		return fmt.Errorf("%w: %d classes, %d weight rows, %d biases", ErrDimension, m.Classes, len(m.Weights), len(m.Bias))
	}
	if len(m.Mean) != m.Features || len(m.Scale) != m.Features {
		return fmt.Errorf("%w: scaler has %d/%d columns, want %d", ErrDimension, len(m.Mean), len(m.Scale), m.Features)
	}
	for k, w := range m.Weights {
		if len(w) != m.Features {
			return fmt.Errorf("%w: class %d has %d weights, want %d", ErrDimension, k, len(w), m.Features)
		}
		if j := nonFinite(w); j >= 0 {
			return fmt.Errorf("%w: weight [%d][%d] is %v", ErrInvalidModel, k, j, w[j])
		}
	}
	for j, s := range m.Scale {
		if !(s > 0) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: scale of column %d is %v", ErrInvalidModel, j, s)
		}
	}
	if j := nonFinite(m.Mean); j >= 0 {
		return fmt.Errorf("%w: mean of column %d is %v", ErrInvalidModel, j, m.Mean[j])
	}
	if k := nonFinite(m.Bias); k >= 0 {
		return fmt.Errorf("%w: bias of class %d is %v", ErrInvalidModel, k, m.Bias[k])
	}
	return nil
}

// nonFinite returns the index of the first NaN or infinite value in v, or -1.
func nonFinite(v []float64) int {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return i
		}
	}
	return -1
}
