// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	predictions *prometheus.CounterVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "veracity",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "predictions_total",
			Help:      "Predictions served by predicted label.",
		}, []string{"label"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "prediction_cache_hits_total",
			Help:      "Predictions answered from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "veracity",
			Name:      "prediction_cache_misses_total",
			Help:      "Predictions computed by the classifier.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.predictions, m.cacheHits, m.cacheMisses)
	return m
}
