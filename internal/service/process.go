package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/idlab-discover/modelmaster-cli/internal/results"
	"github.com/idlab-discover/modelmaster-cli/internal/upload"
)

// ProcessRequest is one evaluation submission.
type ProcessRequest struct {
	File           upload.RawFile
	TargetVariable string
	Task           results.TaskType
}

// ProcessResponse is the decoded body of POST /api/process.
type ProcessResponse struct {
	Results           []results.Raw              `json:"results"`
	BestModel         string                     `json:"best_model,omitempty"`
	ModelType         string                     `json:"model_type"`
	TargetVariable    string                     `json:"target_variable"`
	ClassDistribution *results.ClassDistribution `json:"class_distribution,omitempty"`
	BestAccuracy      *float64                   `json:"best_accuracy,omitempty"`
	BestR2            *float64                   `json:"best_r2_score,omitempty"`
}

// Process uploads the dataset and returns the evaluated candidates.
func (c *Client) Process(ctx context.Context, pr ProcessRequest) (*ProcessResponse, error) {
	body, contentType, err := encodeProcessForm(pr)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/process"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logf(c.RunID, "POST /api/process file=%s size=%d target=%s task=%s", pr.File.Name, pr.File.Size, pr.TargetVariable, pr.Task)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("process dataset: %w", err)
	}
	defer resp.Body.Close()

	if !successful(resp.StatusCode) {
		rerr := remoteError(OpProcess, resp.StatusCode, resp.Body)
		logf(c.RunID, "process failed (%d): %s", resp.StatusCode, rerr.Message)
		return nil, rerr
	}

	var parsed ProcessResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, malformed(OpProcess, resp.StatusCode, err)
	}
	logf(c.RunID, "process ok (%d results)", len(parsed.Results))
	return &parsed, nil
}

func encodeProcessForm(pr ProcessRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", pr.File.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(pr.File.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("target_variable", pr.TargetVariable); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("model_type", pr.Task.String()); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
