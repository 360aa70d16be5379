package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Remote session statuses as reported by the forecast service. The
// set is owned by the service; only the terminal completed state
// matters locally.
const StatusCompleted = "completed"

// Client talks to the forecasting / impact-analysis service. All
// calls are synchronous; the service assigns opaque session ids.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a forecast-service client authenticated with a
// bearer token.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Row is one (timestamp, value) point on the wire.
type Row struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// DatasetReceipt confirms one dataset upload request.
type DatasetReceipt struct {
	ID   string `json:"id"`
	Rows int    `json:"rowCount"`
}

// CreateDataset submits rows under a dataset name. Repeating the name
// appends to the existing dataset, which is how chunked uploads build
// one large dataset out of bounded requests.
func (c *Client) CreateDataset(ctx context.Context, name string, rows []Row) (DatasetReceipt, error) {
	body := struct {
		Name string `json:"name"`
		Rows []Row  `json:"rows"`
	}{Name: name, Rows: rows}

	var receipt DatasetReceipt
	if err := c.postJSON(ctx, "/api/v1/datasets", body, &receipt); err != nil {
		return DatasetReceipt{}, fmt.Errorf("create dataset %s: %w", name, err)
	}
	c.logger.Debug("dataset chunk accepted", "dataset", name, "rows", len(rows))
	return receipt, nil
}

// Dataset describes a dataset known to the remote service.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rows      int       `json:"rowCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListDatasets returns the datasets known to the remote service.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var resp struct {
		Datasets []Dataset `json:"datasets"`
	}
	if err := c.getJSON(ctx, "/api/v1/datasets", &resp); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return resp.Datasets, nil
}

// ForecastRequest describes a forecast job.
type ForecastRequest struct {
	Dataset      string    `json:"dataset"`
	TargetColumn string    `json:"targetColumn"`
	Start        time.Time `json:"startTime"`
	End          time.Time `json:"endTime"`
	Granularity  string    `json:"granularity"`
}

// ImpactRequest describes an impact-analysis job: a forecast request
// plus the named event whose effect is measured.
type ImpactRequest struct {
	ForecastRequest
	EventName string `json:"eventName"`
}

// CreateForecast submits a forecast job and returns the session id
// the service assigned.
func (c *Client) CreateForecast(ctx context.Context, req ForecastRequest) (string, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.postJSON(ctx, "/api/v1/sessions/forecast", req, &resp); err != nil {
		return "", fmt.Errorf("create forecast: %w", err)
	}
	return resp.SessionID, nil
}

// CreateImpactAnalysis submits an impact-analysis job and returns the
// assigned session id.
func (c *Client) CreateImpactAnalysis(ctx context.Context, req ImpactRequest) (string, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.postJSON(ctx, "/api/v1/sessions/impact", req, &resp); err != nil {
		return "", fmt.Errorf("create impact analysis: %w", err)
	}
	return resp.SessionID, nil
}

// SessionStatus is the remote view of a session: its lifecycle status
// plus, once completed, job metrics and the result points.
type SessionStatus struct {
	ID      string             `json:"id"`
	Status  string             `json:"status"`
	Metrics map[string]float64 `json:"metrics"`
	Result  []Row              `json:"result"`
}

// GetSession fetches the current status and any results for a session
// id.
func (c *Client) GetSession(ctx context.Context, id string) (*SessionStatus, error) {
	var status SessionStatus
	if err := c.getJSON(ctx, "/api/v1/sessions/"+id, &status); err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &status, nil
}

// RemoteSession is one entry in the remote session listing.
type RemoteSession struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListSessions returns the sessions known to the remote service.
func (c *Client) ListSessions(ctx context.Context) ([]RemoteSession, error) {
	var resp struct {
		Sessions []RemoteSession `json:"sessions"`
	}
	if err := c.getJSON(ctx, "/api/v1/sessions", &resp); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return resp.Sessions, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("service error: status %d: %s", resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
