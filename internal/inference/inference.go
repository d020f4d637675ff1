// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inference binds a fitted feature pipeline to a fitted classifier.
// A Context is loaded once at process start and is safe for concurrent use
// because nothing in it changes after Load returns.
package inference

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pdiddy/veracity/internal/classifier"
	"github.com/pdiddy/veracity/internal/features"
	"github.com/pdiddy/veracity/internal/label"
	"github.com/pdiddy/veracity/pkg/types"
)

// Artifact file names inside a model directory.
const (
	FeaturesFile = "features.json"
	ModelFile    = "model.json"
)

var (
	// ErrWidthMismatch is returned when the classifier was trained on a
	// different number of columns than the pipeline produces.
	ErrWidthMismatch = errors.New("classifier width does not match feature pipeline")

	// ErrNoLabels is returned by Evaluate when no record carries a known label.
	ErrNoLabels = errors.New("no labelled records")
)

// Context holds the immutable artifacts used to answer predictions.
type Context struct {
	dir      string
	pipeline *features.Pipeline
	model    *classifier.Softmax
}

// Prediction is the outcome for one record. TrueLabel and Correct are set
// only when the record carried one of the six known labels.
type Prediction struct {
	Label     types.Label
	Index     int
	TrueLabel types.Label
	Correct   *bool
}

// Evaluation summarises predictions over labelled records. Confusion is
// indexed [true][predicted] in label.Order().
type Evaluation struct {
	Rows      int
	Skipped   int
	Correct   int
	Accuracy  float64
	Labels    []types.Label
	Confusion [][]int
}

// Load reads features.json and model.json from dir.
func Load(dir string) (*Context, error) {
	p, err := features.Load(filepath.Join(dir, FeaturesFile))
	if err != nil {
		return nil, fmt.Errorf("loading feature state: %w", err)
	}
	m, err := classifier.Load(filepath.Join(dir, ModelFile))
	if err != nil {
		return nil, fmt.Errorf("loading classifier: %w", err)
	}
	c, err := New(p, m)
	if err != nil {
		return nil, err
	}
	c.dir = dir
	return c, nil
}

// New checks that p and m agree and wraps them in a Context.
func New(p *features.Pipeline, m *classifier.Softmax) (*Context, error) {
	if !p.Fitted() {
		return nil, features.ErrNotFitted
	}
	if !m.Fitted() {
		return nil, classifier.ErrNotFitted
	}
	if m.Features != p.Width() {
		return nil, fmt.Errorf("%w: classifier expects %d columns, pipeline produces %d", ErrWidthMismatch, m.Features, p.Width())
	}
	if m.Classes != label.NumClasses {
		return nil, fmt.Errorf("classifier has %d classes, want %d", m.Classes, label.NumClasses)
	}
	return &Context{pipeline: p, model: m}, nil
}

// Dir is the model directory the context was loaded from, if any.
func (c *Context) Dir() string {
	return c.dir
}

// Pipeline returns the fitted feature pipeline. Callers must not refit it.
func (c *Context) Pipeline() *features.Pipeline {
	return c.pipeline
}

// Width is the number of feature columns per record.
func (c *Context) Width() int {
	return c.pipeline.Width()
}

// Predict classifies one record.
func (c *Context) Predict(r types.Record) (Prediction, error) {
	preds, err := c.PredictBatch([]types.Record{r})
	if err != nil {
		return Prediction{}, err
	}
	return preds[0], nil
}

// PredictBatch classifies records in one classifier call.
func (c *Context) PredictBatch(records []types.Record) ([]Prediction, error) {
	m, err := c.pipeline.Transform(records)
	if err != nil {
		return nil, fmt.Errorf("transforming records: %w", err)
	}
	idx, err := c.model.Predict(m.Rows)
	if err != nil {
		return nil, fmt.Errorf("classifying records: %w", err)
	}

	out := make([]Prediction, len(records))
	for i, k := range idx {
		l, err := label.Decode(k)
		if err != nil {
			return nil, fmt.Errorf("decoding prediction for row %d: %w", i, err)
		}
		out[i] = Prediction{Label: l, Index: k}
		if label.Valid(records[i].Label) {
			ok := records[i].Label == l
			out[i].TrueLabel = records[i].Label
			out[i].Correct = &ok
		}
	}
	return out, nil
}

// Evaluate predicts every record with a known label and tallies accuracy
// and the confusion matrix. Records without a known label are skipped.
func (c *Context) Evaluate(records []types.Record) (Evaluation, error) {
	ev := Evaluation{
		Labels:    label.Order(),
		Confusion: make([][]int, label.NumClasses),
	}
	for i := range ev.Confusion {
		ev.Confusion[i] = make([]int, label.NumClasses)
	}

	labelled := make([]types.Record, 0, len(records))
	for _, r := range records {
		if label.Valid(r.Label) {
			labelled = append(labelled, r)
		} else {
			ev.Skipped++
		}
	}
	if len(labelled) == 0 {
		return ev, ErrNoLabels
	}

	preds, err := c.PredictBatch(labelled)
	if err != nil {
		return ev, err
	}
	for i, p := range preds {
		truth, _ := label.Encode(labelled[i].Label)
		ev.Confusion[truth][p.Index]++
		if truth == p.Index {
			ev.Correct++
		}
	}
	ev.Rows = len(labelled)
	ev.Accuracy = float64(ev.Correct) / float64(ev.Rows)
	return ev, nil
}
