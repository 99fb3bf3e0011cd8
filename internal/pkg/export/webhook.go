package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookSender posts exported checklist payloads to the spreadsheet
// integration endpoint. The HTTP client usually carries the offline
// interception transport, so a dead network queues the POST instead of
// losing it.
type WebhookSender struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewWebhookSender creates a sender; httpClient nil means a plain client.
func NewWebhookSender(url, apiKey string, httpClient *http.Client) *WebhookSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &WebhookSender{url: url, apiKey: apiKey, http: httpClient}
}

// Configured reports whether a webhook URL is set.
func (w *WebhookSender) Configured() bool {
	return w.url != ""
}

// Send posts one checklist payload. A queued (202) response counts as
// success; the replay routine delivers it later.
func (w *WebhookSender) Send(ctx context.Context, payload ChecklistPayload) error {
	if !w.Configured() {
		return fmt.Errorf("webhook URL is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode checklist payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("X-CTM-Key", w.apiKey)
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected payload: %d %s", resp.StatusCode, string(msg))
	}
	return nil
}
