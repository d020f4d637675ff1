// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/veracity/pkg/types"
)

func init() {
	RetryBaseDelay = 1 * time.Millisecond
}

func sampleRequest() types.PredictRequest {
	return types.NewPredictRequest(types.Record{
		Statement:        "Says the economy grew.",
		Subject:          "economy",
		Speaker:          "someone",
		PartyAffiliation: "none",
		Counts:           types.Counts{BarelyTrue: 1, HalfTrue: 2},
	})
}

func TestPredict_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var got types.PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.NotNil(t, got.Subject)
		assert.Equal(t, "economy", *got.Subject)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_label":"half-true"}`))
	}))
	defer ts.Close()

	resp, err := New(ts.URL+"/").Predict(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "half-true", resp.PredictedLabel)
	assert.Nil(t, resp.Correct)
}

func TestPredict_RetriesUnavailable(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got types.PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"predicted_label":"false"}`))
	}))
	defer ts.Close()

	resp, err := New(ts.URL).Predict(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "false", resp.PredictedLabel)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPredict_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := New(ts.URL)
	c.MaxRetries = 2
	_, err := c.Predict(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPredict_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid input","details":[{"field":"Speaker","rule":"required"}]}`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).Predict(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Invalid input")
	assert.Contains(t, err.Error(), "Speaker (required)")
}

func TestPredict_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Predict(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "boom")
}

func TestPredict_ContextCancelledDuringBackoff(t *testing.T) {
	old := RetryBaseDelay
	RetryBaseDelay = time.Hour
	defer func() { RetryBaseDelay = old }()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(ts.URL).Predict(ctx, sampleRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	assert.NoError(t, New(ts.URL).Health(context.Background()))
	assert.Error(t, New(ts.URL+"/nope").Health(context.Background()))
}
