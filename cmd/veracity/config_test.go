// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/veracity/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), c)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "veracity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
features:
  min_subject_frequency: 20
  top_categories: 8
classifier:
  epochs: 50
train:
  holdout_fraction: 0.2
serve:
  cache_ttl: 30s
`), 0o644))
	t.Setenv("VERACITY_SERVE_ADDR", ":9000")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("VERACITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Features.MinSubjectFrequency)
	assert.Equal(t, 8, c.Features.TopCategories)
	assert.Equal(t, 100, c.Features.StatementMaxFeatures)
	assert.Equal(t, 50, c.Classifier.Epochs)
	assert.Equal(t, 0.2, c.Train.HoldoutFraction)
	assert.Equal(t, 30*time.Second, c.Serve.CacheTTL)
	assert.Equal(t, ":9000", c.Serve.Addr)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		edit func(*types.Config)
		want string
	}{
		{"min frequency", func(c *types.Config) { c.Features.MinSubjectFrequency = 0 }, "min_subject_frequency"},
		{"top categories", func(c *types.Config) { c.Features.TopCategories = 0 }, "top_categories"},
		{"max features", func(c *types.Config) { c.Features.ContextMaxFeatures = 0 }, "max_features"},
		{"max df", func(c *types.Config) { c.Features.MaxDocumentFrequency = 1.5 }, "max_document_frequency"},
		{"epochs", func(c *types.Config) { c.Classifier.Epochs = 0 }, "epochs"},
		{"learning rate", func(c *types.Config) { c.Classifier.LearningRate = 0 }, "learning_rate"},
		{"holdout", func(c *types.Config) { c.Train.HoldoutFraction = 1 }, "holdout_fraction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := types.DefaultConfig()
			tt.edit(&c)
			err := validateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.NoError(t, validateConfig(types.DefaultConfig()))
}
