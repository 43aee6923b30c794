// Package service is the HTTP adapter for the model evaluation and prediction
// backend.
package service

import (
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is used when Client.BaseURL is empty.
const DefaultBaseURL = "http://localhost:5000"

// UserAgent identifies the CLI on every request.
const UserAgent = "modelmaster-cli"

// uaTransport stamps the User-Agent header on every request.
type uaTransport struct {
	base http.RoundTripper
	ua   string
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.ua)
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates an *http.Client for the backend.
// timeout is the per-request deadline (0 = no timeout).
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &uaTransport{base: http.DefaultTransport, ua: UserAgent},
	}
}

// Client talks to the backend. The zero value uses http.DefaultClient and
// DefaultBaseURL.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	RunID   string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) url(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + path
}
