// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/veracity/pkg/types"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePredict(c *gin.Context) {
	body, err := c.GetRawData()
	body = bytes.TrimSpace(body)
	if err != nil || len(body) == 0 || bytes.Equal(body, []byte("null")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty JSON payload"})
		return
	}

	var req types.PredictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// A wrong type on a known key is a field problem, not a broken body.
		if details := types.FieldErrors(err); details != nil {
			s.logger.Warn("rejected prediction request", "request_id", c.GetString(requestIDKey), "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": details})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty JSON payload"})
		return
	}
	if err := req.Validate(); err != nil {
		s.logger.Warn("rejected prediction request", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": types.FieldErrors(err)})
		return
	}

	rec := req.Record()
	predicted, err := s.predict(rec)
	if err != nil {
		s.logger.Error("prediction failed", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.predictions.WithLabelValues(string(predicted)).Inc()

	resp := types.PredictResponse{PredictedLabel: string(predicted)}
	if req.Label != "" {
		correct := req.Label == string(predicted)
		resp.TrueLabel = req.Label
		resp.Correct = &correct
	}
	c.JSON(http.StatusOK, resp)
}

// predict consults the cache before the classifier. The fitted artifacts
// never change while the server runs, so a cached label stays valid.
func (s *Server) predict(rec types.Record) (types.Label, error) {
	if s.cache == nil {
		p, err := s.predictor.Predict(rec)
		return p.Label, err
	}

	key := digest(rec)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.cacheHits.Inc()
		return v.(types.Label), nil
	}
	s.metrics.cacheMisses.Inc()

	p, err := s.predictor.Predict(rec)
	if err != nil {
		return "", err
	}
	s.cache.Set(key, p.Label, gocache.DefaultExpiration)
	return p.Label, nil
}

// digest hashes the fields the feature pipeline reads. ID, label, job
// title and state do not affect the prediction and are left out.
func digest(r types.Record) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00", r.Statement, r.Subject, r.Speaker, r.PartyAffiliation, r.Context)
	for _, v := range r.Counts.Values() {
		fmt.Fprintf(h, "%g\x00", v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
