package rewindsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Rift Rewind HTTP API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// PlayerInput identifies one player in a start request.
type PlayerInput struct {
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
	Region   string `json:"region"`
}

// StartJobResponse acknowledges an accepted job.
type StartJobResponse struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JobProgress is the server's view of a running job.
type JobProgress struct {
	Status      string     `json:"status"`
	CurrentStep int        `json:"currentStep"`
	TotalSteps  int        `json:"totalSteps"`
	Message     string     `json:"message"`
	StartedAt   time.Time  `json:"startedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Terminal reports whether the job has finished, successfully or not.
func (p JobProgress) Terminal() bool {
	return p.Status == "DONE" || p.Status == "FAILED"
}

// StatusResponse is the polling body for both job kinds. Result stays
// raw so callers decode only the shape they asked for.
type StatusResponse struct {
	JobID    string          `json:"jobId"`
	Progress JobProgress     `json:"progress"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// APIError wraps a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// StartRewind submits a single-player rewind job.
func (c *Client) StartRewind(ctx context.Context, player PlayerInput, year int) (StartJobResponse, error) {
	body := map[string]any{
		"gameName": player.GameName,
		"tagLine":  player.TagLine,
		"region":   player.Region,
		"year":     year,
	}
	var resp StartJobResponse
	err := c.do(ctx, http.MethodPost, "api/v1/jobs/rewind", body, &resp)
	return resp, err
}

// RewindStatus fetches the current state of a rewind job.
func (c *Client) RewindStatus(ctx context.Context, jobID string) (StatusResponse, error) {
	var resp StatusResponse
	endpoint := fmt.Sprintf("api/v1/jobs/rewind/%s", url.PathEscape(jobID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// StartCompare submits a two-player comparison job.
func (c *Client) StartCompare(ctx context.Context, player1, player2 PlayerInput, year int) (StartJobResponse, error) {
	body := map[string]any{
		"player1": player1,
		"player2": player2,
		"year":    year,
	}
	var resp StartJobResponse
	err := c.do(ctx, http.MethodPost, "api/v1/jobs/compare", body, &resp)
	return resp, err
}

// CompareStatus fetches the current state of a comparison job.
func (c *Client) CompareStatus(ctx context.Context, jobID string) (StatusResponse, error) {
	var resp StatusResponse
	endpoint := fmt.Sprintf("api/v1/jobs/compare/%s", url.PathEscape(jobID))
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
