// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/veracity/internal/train"
)

var trainCmd = &cobra.Command{
	Use:   "train <file.tsv> [file.tsv...]",
	Short: "Fit the feature pipeline and classifier from labelled TSV files",
	Long: `Train reads one or more headerless 14-column TSV files, drops rows with
more than three missing fields, fills the rest, and fits the feature pipeline
and the softmax classifier. The fitted artifacts are written to the model
directory as features.json and model.json, and the run is recorded in the
run registry.

Pass the training and test files together to fit on their union.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	c := cfg
	c.Train.ModelDir = modelDirFlag(cmd, c.Train.ModelDir)
	if cmd.Flags().Changed("holdout") {
		c.Train.HoldoutFraction, _ = cmd.Flags().GetFloat64("holdout")
	}
	if cmd.Flags().Changed("seed") {
		c.Train.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("epochs") {
		c.Classifier.Epochs, _ = cmd.Flags().GetInt("epochs")
	}
	if cmd.Flags().Changed("registry") {
		c.Train.RegistryPath, _ = cmd.Flags().GetString("registry")
	}
	if err := validateConfig(c); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	var progress io.Writer = os.Stdout
	if jsonOutput {
		progress = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := train.Run(ctx, c, args, progress)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Fprintf(os.Stdout, "\nrun %s: %d features, train accuracy %.4f", rep.RunID, rep.FeatureWidth, rep.TrainAccuracy)
	if rep.HoldoutRows > 0 {
		fmt.Fprintf(os.Stdout, ", holdout accuracy %.4f", rep.HoldoutAccuracy)
	}
	fmt.Fprintf(os.Stdout, " (%s)\n", rep.Duration.Round(time.Millisecond))
	return nil
}

func init() {
	trainCmd.Flags().String("model-dir", "models", "directory receiving features.json and model.json")
	trainCmd.Flags().Float64("holdout", 0, "fraction of rows held out for evaluation")
	trainCmd.Flags().Uint64("seed", 42, "seed for the holdout shuffle")
	trainCmd.Flags().Int("epochs", 300, "classifier gradient descent epochs")
	trainCmd.Flags().String("registry", "models/runs.db", "run registry database (empty disables recording)")
	trainCmd.Flags().Bool("json", false, "print the run report as JSON")

	rootCmd.AddCommand(trainCmd)
}
