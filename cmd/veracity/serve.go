// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pdiddy/veracity/internal/inference"
	"github.com/pdiddy/veracity/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	Long: `Serve loads features.json and model.json once and answers
POST /predict, GET /health and GET /metrics. Missing or corrupt artifacts stop
the server before it listens. Restart the server to pick up a retrained model.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	c := cfg.Serve
	c.ModelDir = modelDirFlag(cmd, c.ModelDir)
	if cmd.Flags().Changed("addr") {
		c.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("cache-ttl") {
		c.CacheTTL, _ = cmd.Flags().GetDuration("cache-ttl")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ic, err := inference.Load(c.ModelDir)
	if err != nil {
		logger.Error("failed to load model", "model_dir", c.ModelDir, "error", err)
		return err
	}
	logger.Info("model loaded", "model_dir", c.ModelDir, "features", ic.Width())

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(ic, server.Options{CacheTTL: c.CacheTTL, Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, c.Addr)
}

func init() {
	serveCmd.Flags().String("addr", ":5042", "listen address")
	serveCmd.Flags().String("model-dir", "models", "directory containing features.json and model.json")
	serveCmd.Flags().Duration("cache-ttl", 10*time.Minute, "prediction cache lifetime (0 disables the cache)")

	rootCmd.AddCommand(serveCmd)
}
