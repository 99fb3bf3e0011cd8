package offlinequeue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/hhtelecom/fieldcapture/app/repository"
)

// Replayer drains the captured request queue once connectivity is
// back. It must use a plain client, never the intercepting transport,
// or a dead network would re-queue what it is replaying.
type Replayer struct {
	queue repository.QueueRepository
	http  *http.Client
}

// NewReplayer creates a replayer; httpClient nil means a plain client.
func NewReplayer(queue repository.QueueRepository, httpClient *http.Client) *Replayer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Replayer{queue: queue, http: httpClient}
}

// Replay walks the queue in insertion order and re-issues every
// request. An item is removed only after a successful response; the
// first failure leaves it and everything behind it in place for the
// next replay. Returns how many requests were drained.
func (r *Replayer) Replay(ctx context.Context) (int, error) {
	items, err := r.queue.All()
	if err != nil {
		return 0, fmt.Errorf("failed to load offline queue: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}
	log.Info(fmt.Sprintf("[OfflineQueue] replaying %d queued requests", len(items)))

	replayed := 0
	for _, item := range items {
		req, err := http.NewRequestWithContext(ctx, item.Method, item.URL, bytes.NewReader(item.Body))
		if err != nil {
			// Only Transport writes queue rows, so an unbuildable
			// request is a corrupt row, not a transient failure.
			// Stopping would wedge the queue forever; dropping it
			// keeps the well-formed items behind it in order.
			log.Error(fmt.Sprintf("[OfflineQueue] dropping corrupt queued request %d: %v", item.ID, err))
			if delErr := r.queue.Delete(item.ID); delErr != nil {
				return replayed, delErr
			}
			continue
		}
		applyHeaders(req, item.Headers)

		resp, err := r.http.Do(req)
		if err != nil {
			log.Warn(fmt.Sprintf("[OfflineQueue] replay of request %d failed, stopping: %v", item.ID, err))
			return replayed, nil
		}
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Warn(fmt.Sprintf("[OfflineQueue] replay of request %d rejected with %d, stopping", item.ID, resp.StatusCode))
			return replayed, nil
		}

		if err := r.queue.Delete(item.ID); err != nil {
			return replayed, fmt.Errorf("failed to remove replayed request %d: %w", item.ID, err)
		}
		replayed++
	}

	log.Info(fmt.Sprintf("[OfflineQueue] replay finished, %d drained", replayed))
	return replayed, nil
}

func applyHeaders(req *http.Request, raw []byte) {
	var pairs [][2]string
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return
	}
	for _, p := range pairs {
		req.Header.Add(p[0], p[1])
	}
}
