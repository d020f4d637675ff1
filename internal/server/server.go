// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes a fitted model over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pdiddy/veracity/internal/inference"
	"github.com/pdiddy/veracity/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Predictor classifies one record. *inference.Context satisfies it.
type Predictor interface {
	Predict(r types.Record) (inference.Prediction, error)
}

// Options configures a Server. Zero values select defaults: no cache, a
// JSON slog logger on stderr, and a private Prometheus registry.
type Options struct {
	CacheTTL time.Duration
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// Server routes HTTP requests to a Predictor.
type Server struct {
	predictor Predictor
	cache     *gocache.Cache
	logger    *slog.Logger
	metrics   *metrics
	engine    *gin.Engine
}

// New builds the gin engine with /health, /predict and /metrics.
func New(p Predictor, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		predictor: p,
		logger:    logger,
		metrics:   newMetrics(reg),
	}
	if opts.CacheTTL > 0 {
		s.cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(logger, s.metrics))
	r.GET("/health", s.handleHealth)
	r.POST("/predict", s.handlePredict)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.engine = r
	return s
}

// Handler returns the HTTP handler for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
