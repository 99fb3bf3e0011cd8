package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hhtelecom/fieldcapture/internal/pkg/syncengine"
)

// TableClient implements the sync engine's row upserts against a
// PostgREST-style HTTP endpoint (the remote database is an external
// collaborator; only the two logical tables matter here).
type TableClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewTableClient creates a remote table client. httpClient may carry
// the offline interception transport; pass nil for a plain client.
func NewTableClient(cfg *Config, httpClient *http.Client) *TableClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TableClient{
		baseURL: cfg.DatabaseURL,
		apiKey:  cfg.DatabaseKey,
		http:    httpClient,
	}
}

// UpsertReport inserts or replaces one row of the reports table
func (c *TableClient) UpsertReport(ctx context.Context, row syncengine.ReportRow) error {
	return c.upsert(ctx, "reports", row)
}

// UpsertPhoto inserts or replaces one row of the photos table
func (c *TableClient) UpsertPhoto(ctx context.Context, row syncengine.PhotoRow) error {
	return c.upsert(ctx, "photos", row)
}

// MarkReportSent advances the remote report row to sent
func (c *TableClient) MarkReportSent(ctx context.Context, id string, updatedAt time.Time) error {
	body := map[string]interface{}{
		"status":     "sent",
		"updated_at": updatedAt,
	}
	endpoint := fmt.Sprintf("%s/rest/v1/reports?id=eq.%s", c.baseURL, url.QueryEscape(id))
	return c.send(ctx, http.MethodPatch, endpoint, body)
}

func (c *TableClient) upsert(ctx context.Context, table string, row interface{}) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	return c.send(ctx, http.MethodPost, endpoint, row)
}

func (c *TableClient) send(ctx context.Context, method, endpoint string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote database unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote database rejected %s %s: %d %s", method, endpoint, resp.StatusCode, string(msg))
	}
	return nil
}
