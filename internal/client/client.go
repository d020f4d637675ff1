// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client calls a running veracity prediction server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/veracity/pkg/types"
)

// ErrRejected is returned when the server answers 400 to a prediction
// request. The wrapped message carries the server's error body.
var ErrRejected = errors.New("prediction rejected")

// Client talks to the prediction server at BaseURL.
type Client struct {
	BaseURL    string
	HTTP       *http.Client
	MaxRetries int
}

// New returns a client for baseURL with a bounded request timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ErrorBody mirrors the server's error payload.
type ErrorBody struct {
	Error   string             `json:"error"`
	Details []types.FieldError `json:"details,omitempty"`
}

// Predict posts req to /predict and decodes the response.
func (c *Client) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	var out types.PredictResponse

	payload, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := doWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predict", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	}, c.MaxRetries)
	if err != nil {
		return out, fmt.Errorf("calling %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, &out); err != nil {
			return out, fmt.Errorf("decoding response: %w", err)
		}
		return out, nil
	case resp.StatusCode == http.StatusBadRequest:
		var eb ErrorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			return out, fmt.Errorf("%w: %s%s", ErrRejected, eb.Error, describeDetails(eb.Details))
		}
		return out, fmt.Errorf("%w: %s", ErrRejected, strings.TrimSpace(string(body)))
	default:
		return out, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
}

// Health returns nil when GET /health answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", c.BaseURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	return nil
}

func describeDetails(details []types.FieldError) string {
	if len(details) == 0 {
		return ""
	}
	parts := make([]string, len(details))
	for i, d := range details {
		parts[i] = d.Field + " (" + d.Rule + ")"
	}
	return " [" + strings.Join(parts, ", ") + "]"
}
