// Package health probes the conversational backend's HTTP status surface.
// It is out-of-band from the message stream; the CLI uses it to tell a dead
// backend apart from a flaky channel.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Status is the backend's health payload.
type Status struct {
	Status string `json:"status"`
}

// Healthy reports whether the backend declared itself healthy.
func (s Status) Healthy() bool {
	return strings.EqualFold(s.Status, "healthy")
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a probe for the backend's HTTP base URL
// (e.g. http://localhost:8000).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Check fetches /health and decodes the status payload.
func (c *Client) Check(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Status{}, errors.Wrap(err, "build health request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, errors.Wrap(err, "health request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Status{}, errors.Errorf("health check returned status %d", resp.StatusCode)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, errors.Wrap(err, "decode health payload")
	}
	return st, nil
}
