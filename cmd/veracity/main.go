// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the veracity CLI: train a
// truthfulness classifier from labelled statements, evaluate it, and serve
// predictions over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/veracity/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the merged configuration: defaults, then veracity.yaml, then
// VERACITY_* environment variables. Command flags override it in RunE.
var cfg = types.DefaultConfig()

// rootCmd is the base command for the veracity CLI.
var rootCmd = &cobra.Command{
	Use:   "veracity",
	Short: "Truthfulness classification for short political statements",
	Long: `veracity turns labelled political statements into numeric features,
trains a six-way truthfulness classifier, and serves predictions.

Train writes features.json and model.json into a model directory. Evaluate,
predict, inspect and serve load those artifacts read-only.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./veracity.yaml or ~/.config/veracity/veracity.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("veracity")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "veracity"))
		}
	}

	viper.SetEnvPrefix("VERACITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
