// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/veracity/internal/dataset"
	"github.com/pdiddy/veracity/internal/inference"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file.tsv> [file.tsv...]",
	Short: "Score a trained model against labelled TSV files",
	Long: `Evaluate loads the model directory, cleans the given TSV files the same
way train does, and prints accuracy and the confusion matrix (rows are true
labels, columns are predictions).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	dir := modelDirFlag(cmd, cfg.Serve.ModelDir)
	ic, err := inference.Load(dir)
	if err != nil {
		return err
	}

	data, err := dataset.LoadFiles(args...)
	if err != nil {
		return err
	}
	ev, err := ic.Evaluate(data.Records)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ev)
	}

	fmt.Fprintf(os.Stdout, "%d rows scored, %d dropped while cleaning, %d without a known label\n",
		ev.Rows, data.Dropped, ev.Skipped)
	fmt.Fprintf(os.Stdout, "accuracy %.4f (%d/%d)\n\n", ev.Accuracy, ev.Correct, ev.Rows)

	fmt.Fprintf(os.Stdout, "%-12s", "")
	for _, l := range ev.Labels {
		fmt.Fprintf(os.Stdout, "%12s", l)
	}
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 12*(len(ev.Labels)+1)))
	for i, row := range ev.Confusion {
		fmt.Fprintf(os.Stdout, "%-12s", ev.Labels[i])
		for _, n := range row {
			fmt.Fprintf(os.Stdout, "%12d", n)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func init() {
	evaluateCmd.Flags().String("model-dir", "models", "directory containing features.json and model.json")
	evaluateCmd.Flags().Bool("json", false, "output the evaluation as JSON")

	rootCmd.AddCommand(evaluateCmd)
}
