package offlinequeue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
)

// DefaultAllowList holds the ingestion paths whose failed POSTs are
// queued for later replay. Extending this set is configuration, not a
// protocol change.
var DefaultAllowList = []string{"/api/reports", "/api/upload"}

// Transport is an http.RoundTripper that intercepts POSTs to the
// allow-listed ingestion endpoints. The request is attempted normally
// first; only a transport failure (not an HTTP error status) queues it
// and answers with a synthetic 202 so the caller does not see a hard
// failure.
type Transport struct {
	base  http.RoundTripper
	queue repository.QueueRepository
	allow map[string]bool
}

// AllowListFor derives an allow-list from the outbound destinations a
// client will actually post to, so interception follows the wiring
// instead of a hardcoded path set. Empty or unparseable destinations
// are skipped.
func AllowListFor(destinations ...string) []string {
	paths := make([]string, 0, len(destinations))
	for _, d := range destinations {
		u, err := url.Parse(d)
		if err != nil || u.Path == "" {
			continue
		}
		paths = append(paths, u.Path)
	}
	return paths
}

// NewTransport wraps base with offline interception. A nil base falls
// back to http.DefaultTransport.
func NewTransport(base http.RoundTripper, queue repository.QueueRepository, allowPaths []string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if len(allowPaths) == 0 {
		allowPaths = DefaultAllowList
	}
	allow := make(map[string]bool, len(allowPaths))
	for _, p := range allowPaths {
		allow[p] = true
	}
	return &Transport{base: base, queue: queue, allow: allow}
}

// Client returns an http.Client using this transport.
func (t *Transport) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: t, Timeout: timeout}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPost || !t.allow[req.URL.Path] {
		return t.base.RoundTrip(req)
	}

	// Buffer the body so it can be both sent and, on failure, queued.
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	resp, err := t.base.RoundTrip(req)
	if err == nil {
		// HTTP error statuses pass through untouched; only transport
		// failures are queued.
		return resp, nil
	}

	headers, marshalErr := json.Marshal(headerPairs(req.Header))
	if marshalErr != nil {
		headers = []byte("[]")
	}
	queued := &models.QueuedRequest{
		URL:     req.URL.String(),
		Method:  req.Method,
		Headers: datatypes.JSON(headers),
		Body:    body,
		TS:      time.Now().UnixMilli(),
	}
	if qErr := t.queue.Enqueue(queued); qErr != nil {
		log.Error(fmt.Sprintf("[OfflineQueue] failed to queue %s: %v", req.URL.Path, qErr))
		return nil, err
	}

	log.Info(fmt.Sprintf("[OfflineQueue] network down, queued POST %s (id %d)", req.URL.Path, queued.ID))
	return syntheticAccepted(req), nil
}

// syntheticAccepted builds the 202 response handed to the caller when
// a request has been captured for later replay.
func syntheticAccepted(req *http.Request) *http.Response {
	body := `{"ok":true,"queued":true}`
	return &http.Response{
		Status:        "202 Accepted",
		StatusCode:    http.StatusAccepted,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// headerPairs flattens headers into the queued [[k,v],...] shape.
func headerPairs(h http.Header) [][2]string {
	pairs := make([][2]string, 0, len(h))
	for k, vals := range h {
		for _, v := range vals {
			pairs = append(pairs, [2]string{k, v})
		}
	}
	return pairs
}
