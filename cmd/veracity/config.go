// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/veracity/pkg/types"
)

// setDefaults registers every config key so that environment variables
// are honoured by Unmarshal even when no config file sets the key.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("features.min_subject_frequency", d.Features.MinSubjectFrequency)
	v.SetDefault("features.top_categories", d.Features.TopCategories)
	v.SetDefault("features.statement_max_features", d.Features.StatementMaxFeatures)
	v.SetDefault("features.context_max_features", d.Features.ContextMaxFeatures)
	v.SetDefault("features.max_document_frequency", d.Features.MaxDocumentFrequency)
	v.SetDefault("classifier.epochs", d.Classifier.Epochs)
	v.SetDefault("classifier.learning_rate", d.Classifier.LearningRate)
	v.SetDefault("classifier.l2", d.Classifier.L2)
	v.SetDefault("train.model_dir", d.Train.ModelDir)
	v.SetDefault("train.holdout_fraction", d.Train.HoldoutFraction)
	v.SetDefault("train.seed", d.Train.Seed)
	v.SetDefault("train.registry_path", d.Train.RegistryPath)
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.model_dir", d.Serve.ModelDir)
	v.SetDefault("serve.cache_ttl", d.Serve.CacheTTL)
}

// loadConfig merges defaults with whatever v has read and checks the result.
func loadConfig(v *viper.Viper) (types.Config, error) {
	setDefaults(v)
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("parsing config: %w", err)
	}
	if err := validateConfig(c); err != nil {
		return c, err
	}
	return c, nil
}

func validateConfig(c types.Config) error {
	switch {
	case c.Features.MinSubjectFrequency < 1:
		return fmt.Errorf("features.min_subject_frequency must be at least 1, got %d", c.Features.MinSubjectFrequency)
	case c.Features.TopCategories < 1:
		return fmt.Errorf("features.top_categories must be at least 1, got %d", c.Features.TopCategories)
	case c.Features.StatementMaxFeatures < 1 || c.Features.ContextMaxFeatures < 1:
		return fmt.Errorf("features.*_max_features must be at least 1")
	case c.Features.MaxDocumentFrequency <= 0 || c.Features.MaxDocumentFrequency > 1:
		return fmt.Errorf("features.max_document_frequency must be in (0, 1], got %g", c.Features.MaxDocumentFrequency)
	case c.Classifier.Epochs < 1:
		return fmt.Errorf("classifier.epochs must be at least 1, got %d", c.Classifier.Epochs)
	case c.Classifier.LearningRate <= 0:
		return fmt.Errorf("classifier.learning_rate must be positive, got %g", c.Classifier.LearningRate)
	case c.Train.HoldoutFraction < 0 || c.Train.HoldoutFraction >= 1:
		return fmt.Errorf("train.holdout_fraction must be in [0, 1), got %g", c.Train.HoldoutFraction)
	}
	return nil
}

// modelDirFlag returns --model-dir when given, otherwise fallback.
func modelDirFlag(cmd *cobra.Command, fallback string) string {
	if cmd.Flags().Changed("model-dir") {
		dir, _ := cmd.Flags().GetString("model-dir")
		return dir
	}
	return fallback
}
