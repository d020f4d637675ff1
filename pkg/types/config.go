// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FeatureConfig holds the feature pipeline hyperparameters. They are fixed
// at fit time and persisted with the fitted state.
type FeatureConfig struct {
	// MinSubjectFrequency is the minimum number of occurrences a subject tag
	// needs across the training rows to get its own column (default 150).
	MinSubjectFrequency int `json:"min_subject_frequency" yaml:"min_subject_frequency" mapstructure:"min_subject_frequency"`

	// TopCategories is how many of the most frequent speaker and party values
	// keep their own column; the rest collapse into "Other" (default 5).
	TopCategories int `json:"top_categories" yaml:"top_categories" mapstructure:"top_categories"`

	// StatementMaxFeatures caps the statement TF-IDF vocabulary (default 100).
	StatementMaxFeatures int `json:"statement_max_features" yaml:"statement_max_features" mapstructure:"statement_max_features"`

	// ContextMaxFeatures caps the context TF-IDF vocabulary (default 50).
	ContextMaxFeatures int `json:"context_max_features" yaml:"context_max_features" mapstructure:"context_max_features"`

	// MaxDocumentFrequency drops terms present in more than this fraction of
	// the training documents (default 0.7).
	MaxDocumentFrequency float64 `json:"max_document_frequency" yaml:"max_document_frequency" mapstructure:"max_document_frequency"`
}

// ClassifierConfig holds settings for the softmax classifier.
type ClassifierConfig struct {
	// Epochs is the number of full-batch gradient steps (default 300).
	Epochs int `json:"epochs" yaml:"epochs" mapstructure:"epochs"`

	// LearningRate is the gradient step size (default 0.5).
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate" mapstructure:"learning_rate"`

	// L2 is the weight decay coefficient (default 1e-4).
	L2 float64 `json:"l2" yaml:"l2" mapstructure:"l2"`
}

// TrainConfig holds settings for the training driver.
type TrainConfig struct {
	// ModelDir receives features.json and model.json.
	ModelDir string `json:"model_dir" yaml:"model_dir" mapstructure:"model_dir"`

	// HoldoutFraction is the share of cleaned rows held out for evaluation.
	// Zero trains on every row.
	HoldoutFraction float64 `json:"holdout_fraction" yaml:"holdout_fraction" mapstructure:"holdout_fraction"`

	// Seed drives the holdout shuffle.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// RegistryPath is the SQLite database recording training runs. Empty
	// disables run recording.
	RegistryPath string `json:"registry_path" yaml:"registry_path" mapstructure:"registry_path"`
}

// ServeConfig holds settings for the prediction server.
type ServeConfig struct {
	// Addr is the listen address (default ":5042").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ModelDir is where the server loads features.json and model.json.
	ModelDir string `json:"model_dir" yaml:"model_dir" mapstructure:"model_dir"`

	// CacheTTL is how long a prediction stays cached. Zero disables caching.
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// Config groups every section of veracity.yaml.
type Config struct {
	Features   FeatureConfig    `json:"features" yaml:"features" mapstructure:"features"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Train      TrainConfig      `json:"train" yaml:"train" mapstructure:"train"`
	Serve      ServeConfig      `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// DefaultFeatureConfig returns the pipeline hyperparameters used when no
// config file overrides them.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		MinSubjectFrequency:  150,
		TopCategories:        5,
		StatementMaxFeatures: 100,
		ContextMaxFeatures:   50,
		MaxDocumentFrequency: 0.7,
	}
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Features: DefaultFeatureConfig(),
		Classifier: ClassifierConfig{
			Epochs:       300,
			LearningRate: 0.5,
			L2:           1e-4,
		},
		Train: TrainConfig{
			ModelDir:     "models",
			Seed:         42,
			RegistryPath: "models/runs.db",
		},
		Serve: ServeConfig{
			Addr:     ":5042",
			ModelDir: "models",
			CacheTTL: 10 * time.Minute,
		},
	}
}
