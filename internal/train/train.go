// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package train runs the offline training job: load and clean the TSV
// data, fit the feature pipeline and classifier, save both artifacts and
// record the run.
package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/veracity/internal/classifier"
	"github.com/pdiddy/veracity/internal/dataset"
	"github.com/pdiddy/veracity/internal/features"
	"github.com/pdiddy/veracity/internal/inference"
	"github.com/pdiddy/veracity/internal/label"
	"github.com/pdiddy/veracity/internal/runs"
	"github.com/pdiddy/veracity/pkg/types"
)

// ErrNoTrainingData is returned when no usable rows remain after cleaning.
var ErrNoTrainingData = errors.New("no usable training rows")

// Report summarises one training run.
type Report struct {
	RunID           string        `json:"run_id" yaml:"run_id"`
	DataFiles       []string      `json:"data_files" yaml:"data_files"`
	Rows            int           `json:"rows" yaml:"rows"`
	Dropped         int           `json:"dropped" yaml:"dropped"`
	Filled          int           `json:"filled" yaml:"filled"`
	InvalidLabels   int           `json:"invalid_labels" yaml:"invalid_labels"`
	TrainRows       int           `json:"train_rows" yaml:"train_rows"`
	HoldoutRows     int           `json:"holdout_rows" yaml:"holdout_rows"`
	FeatureWidth    int           `json:"feature_width" yaml:"feature_width"`
	TrainAccuracy   float64       `json:"train_accuracy" yaml:"train_accuracy"`
	HoldoutAccuracy float64       `json:"holdout_accuracy" yaml:"holdout_accuracy"`
	ModelDir        string        `json:"model_dir" yaml:"model_dir"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
}

// Run trains a model from the TSV files in paths and writes the artifacts
// to cfg.Train.ModelDir. Progress goes to w. The context is checked
// between stages.
func Run(ctx context.Context, cfg types.Config, paths []string, w io.Writer) (Report, error) {
	started := time.Now()
	rep := Report{
		RunID:     uuid.NewString(),
		DataFiles: append([]string(nil), paths...),
		ModelDir:  cfg.Train.ModelDir,
	}

	if len(paths) == 0 {
		return rep, fmt.Errorf("%w: no data files given", ErrNoTrainingData)
	}

	fmt.Fprintf(w, "loading %d data file(s)\n", len(paths))
	data, err := dataset.LoadFiles(paths...)
	if err != nil {
		return rep, err
	}
	rep.Rows = data.Rows
	rep.Dropped = data.Dropped
	rep.Filled = data.Filled

	records := make([]types.Record, 0, len(data.Records))
	for _, r := range data.Records {
		if !label.Valid(r.Label) {
			rep.InvalidLabels++
			continue
		}
		records = append(records, r)
	}
	fmt.Fprintf(w, "  %d rows read, %d dropped (too many missing fields), %d values filled, %d invalid labels\n",
		rep.Rows, rep.Dropped, rep.Filled, rep.InvalidLabels)
	if len(records) == 0 {
		return rep, ErrNoTrainingData
	}

	trainSet, holdout := dataset.Split(records, cfg.Train.HoldoutFraction, cfg.Train.Seed)
	rep.TrainRows = len(trainSet)
	rep.HoldoutRows = len(holdout)
	if rep.TrainRows == 0 {
		return rep, fmt.Errorf("%w: holdout fraction %.2f leaves no training rows", ErrNoTrainingData, cfg.Train.HoldoutFraction)
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	fmt.Fprintf(w, "fitting feature pipeline on %d rows\n", rep.TrainRows)
	pipeline := features.New(cfg.Features)
	X, err := pipeline.Fit(trainSet)
	if err != nil {
		return rep, fmt.Errorf("fitting features: %w", err)
	}
	y, err := features.Labels(trainSet)
	if err != nil {
		return rep, err
	}
	rep.FeatureWidth = pipeline.Width()
	for _, b := range pipeline.Blocks() {
		fmt.Fprintf(w, "  %-18s %d columns\n", b.Field, len(b.Columns))
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	fmt.Fprintf(w, "fitting classifier (%d epochs)\n", cfg.Classifier.Epochs)
	model := classifier.NewSoftmax(label.NumClasses, cfg.Classifier)
	if err := model.Fit(X.Rows, y); err != nil {
		return rep, fmt.Errorf("fitting classifier: %w", err)
	}

	ic, err := inference.New(pipeline, model)
	if err != nil {
		return rep, err
	}
	trainEval, err := ic.Evaluate(trainSet)
	if err != nil {
		return rep, fmt.Errorf("scoring training rows: %w", err)
	}
	rep.TrainAccuracy = trainEval.Accuracy
	fmt.Fprintf(w, "  training accuracy %.4f\n", rep.TrainAccuracy)

	if len(holdout) > 0 {
		holdEval, err := ic.Evaluate(holdout)
		if err != nil {
			return rep, fmt.Errorf("scoring holdout rows: %w", err)
		}
		rep.HoldoutAccuracy = holdEval.Accuracy
		fmt.Fprintf(w, "  holdout accuracy %.4f on %d rows\n", rep.HoldoutAccuracy, rep.HoldoutRows)
	}

	if err := ctx.Err(); err != nil {
		return rep, err
	}

	fmt.Fprintf(w, "saving artifacts to %s\n", cfg.Train.ModelDir)
	if err := inference.Save(cfg.Train.ModelDir, pipeline, model); err != nil {
		return rep, fmt.Errorf("saving artifacts: %w", err)
	}

	rep.Duration = time.Since(started)

	if cfg.Train.RegistryPath != "" {
		if err := record(ctx, cfg.Train.RegistryPath, rep, started); err != nil {
			return rep, err
		}
		fmt.Fprintf(w, "recorded run %s in %s\n", rep.RunID, cfg.Train.RegistryPath)
	}
	return rep, nil
}

func record(ctx context.Context, path string, rep Report, started time.Time) error {
	store, err := runs.NewStore(path)
	if err != nil {
		return fmt.Errorf("opening run registry: %w", err)
	}
	defer store.Close()

	return store.Record(ctx, runs.Run{
		ID:              rep.RunID,
		StartedAt:       started,
		FinishedAt:      started.Add(rep.Duration),
		DataFiles:       rep.DataFiles,
		Rows:            rep.Rows,
		DroppedRows:     rep.Dropped,
		TrainRows:       rep.TrainRows,
		HoldoutRows:     rep.HoldoutRows,
		FeatureWidth:    rep.FeatureWidth,
		TrainAccuracy:   rep.TrainAccuracy,
		HoldoutAccuracy: rep.HoldoutAccuracy,
		ModelDir:        rep.ModelDir,
	})
}
