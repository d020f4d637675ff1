// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/veracity/internal/classifier"
	"github.com/pdiddy/veracity/internal/features"
	"github.com/pdiddy/veracity/internal/inference"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a summary of the fitted model artifacts",
	Long: `Inspect reads features.json (and model.json when present) from the model
directory and prints block widths, the included subject tags, category lists
and TF-IDF vocabularies. Output is YAML unless --json is given.`,
	RunE: runInspect,
}

type inspection struct {
	ModelDir   string            `json:"model_dir" yaml:"model_dir"`
	Features   features.Summary  `json:"features" yaml:"features"`
	Classifier *classifierDigest `json:"classifier,omitempty" yaml:"classifier,omitempty"`
}

type classifierDigest struct {
	Classes      int     `json:"classes" yaml:"classes"`
	Features     int     `json:"features" yaml:"features"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`
	L2           float64 `json:"l2" yaml:"l2"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir := modelDirFlag(cmd, cfg.Serve.ModelDir)
	s, err := features.LoadState(filepath.Join(dir, inference.FeaturesFile))
	if err != nil {
		return err
	}
	out := inspection{ModelDir: dir, Features: features.Summarize(s)}

	modelPath := filepath.Join(dir, inference.ModelFile)
	if _, err := os.Stat(modelPath); err == nil {
		m, err := classifier.Load(modelPath)
		if err != nil {
			return err
		}
		out.Classifier = &classifierDigest{
			Classes:      m.Classes,
			Features:     m.Features,
			Epochs:       m.Epochs,
			LearningRate: m.LearningRate,
			L2:           m.L2,
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	inspectCmd.Flags().String("model-dir", "models", "directory containing features.json")
	inspectCmd.Flags().Bool("json", false, "output as JSON instead of YAML")

	rootCmd.AddCommand(inspectCmd)
}
