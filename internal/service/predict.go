package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/idlab-discover/modelmaster-cli/internal/predict"
)

type predictRequest struct {
	Inputs map[string]float64 `json:"inputs"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
}

// InputRanges fetches the prediction schema from GET /api/predict/input-ranges.
func (c *Client) InputRanges(ctx context.Context) (*predict.Schema, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/predict/input-ranges"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	logf(c.RunID, "GET /api/predict/input-ranges")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch input ranges: %w", err)
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		return nil, remoteError(OpInputRanges, resp.StatusCode, resp.Body)
	}

	var s predict.Schema
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, malformed(OpInputRanges, resp.StatusCode, err)
	}
	if len(s.Columns) == 0 {
		return nil, malformed(OpInputRanges, resp.StatusCode, errors.New("schema declares no columns"))
	}
	logf(c.RunID, "input ranges ok (%d columns)", len(s.Columns))
	return &s, nil
}

// Predict sends a validated record to POST /api/predict.
func (c *Client) Predict(ctx context.Context, inputs map[string]float64) (float64, error) {
	payload, err := json.Marshal(predictRequest{Inputs: inputs})
	if err != nil {
		return 0, fmt.Errorf("encode inputs: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/predict"), bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logf(c.RunID, "POST /api/predict (%d inputs)", len(inputs))
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, fmt.Errorf("make prediction: %w", err)
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		return 0, remoteError(OpPredict, resp.StatusCode, resp.Body)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, malformed(OpPredict, resp.StatusCode, err)
	}
	if parsed.Prediction == nil {
		return 0, malformed(OpPredict, resp.StatusCode, errors.New("response has no prediction"))
	}
	return *parsed.Prediction, nil
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/health"), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if !successful(resp.StatusCode) {
		return remoteError(OpHealth, resp.StatusCode, resp.Body)
	}
	return nil
}

var (
	_ predict.Predictor    = (*Client)(nil)
	_ predict.SchemaSource = (*Client)(nil)
)
