package offlinequeue_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/database"
	"github.com/hhtelecom/fieldcapture/internal/pkg/offlinequeue"
)

func newTestQueue(t *testing.T) repository.QueueRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:queue_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := database.Open(dsn)
	require.NoError(t, err)
	return repository.NewQueueRepository(db)
}

// deadTransport simulates a device with no network at all.
type deadTransport struct{}

func (deadTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: network is unreachable")
}

func TestTransport_QueuesFailedPost(t *testing.T) {
	queue := newTestQueue(t)
	client := offlinequeue.NewTransport(deadTransport{}, queue, nil).Client(5 * time.Second)

	body := `{"relatorio_id":"SITE1"}`
	resp, err := client.Post("https://backend.example.com/api/reports", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	// The caller sees a synthetic acceptance, not a hard failure.
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"queued":true}`, string(respBody))

	items, err := queue.All()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "POST", items[0].Method)
	assert.Contains(t, items[0].URL, "/api/reports")
	assert.Equal(t, body, string(items[0].Body))
	assert.Greater(t, items[0].TS, int64(0))
}

func TestTransport_DoesNotInterceptOtherPaths(t *testing.T) {
	queue := newTestQueue(t)
	client := offlinequeue.NewTransport(deadTransport{}, queue, nil).Client(5 * time.Second)

	_, err := client.Post("https://backend.example.com/api/unrelated", "application/json", bytes.NewBufferString("{}"))
	assert.Error(t, err)

	count, err := queue.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTransport_DoesNotInterceptGet(t *testing.T) {
	queue := newTestQueue(t)
	client := offlinequeue.NewTransport(deadTransport{}, queue, nil).Client(5 * time.Second)

	_, err := client.Get("https://backend.example.com/api/reports")
	assert.Error(t, err)

	count, err := queue.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTransport_HTTPErrorStatusPassesThrough(t *testing.T) {
	queue := newTestQueue(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := offlinequeue.NewTransport(nil, queue, nil).Client(5 * time.Second)
	resp, err := client.Post(server.URL+"/api/reports", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	// A reachable server that rejects the payload is not an offline
	// condition; nothing may be queued.
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	count, err := queue.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func enqueueRaw(t *testing.T, queue repository.QueueRepository, url, body string) {
	t.Helper()
	require.NoError(t, queue.Enqueue(&models.QueuedRequest{
		URL:     url,
		Method:  "POST",
		Headers: datatypes.JSON([]byte(`[["Content-Type","application/json"]]`)),
		Body:    []byte(body),
		TS:      time.Now().UnixMilli(),
	}))
}

func TestReplayer_DrainsInOrder(t *testing.T) {
	queue := newTestQueue(t)

	var mu sync.Mutex
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":1}`)
	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":2}`)
	enqueueRaw(t, queue, server.URL+"/api/upload", `{"n":3}`)

	replayer := offlinequeue.NewReplayer(queue, nil)
	drained, err := replayer.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, drained)

	assert.Equal(t, []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}, received)

	count, err := queue.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestReplayer_FirstFailureBlocksTheRest(t *testing.T) {
	queue := newTestQueue(t)

	var mu sync.Mutex
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":1}`)
	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":2}`)
	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":3}`)

	replayer := offlinequeue.NewReplayer(queue, nil)
	drained, err := replayer.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, drained)

	// Replay stops at the head; later items are never attempted and
	// the queue keeps its order for the next try.
	assert.Equal(t, 1, requests)
	items, err := queue.All()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, `{"n":1}`, string(items[0].Body))
}

func TestReplayer_ReappliesHeaders(t *testing.T) {
	queue := newTestQueue(t)

	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Ctm-Key")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, queue.Enqueue(&models.QueuedRequest{
		URL:     server.URL + "/api/reports",
		Method:  "POST",
		Headers: datatypes.JSON([]byte(`[["X-CTM-Key","secret-token"]]`)),
		Body:    []byte("{}"),
		TS:      time.Now().UnixMilli(),
	}))

	replayer := offlinequeue.NewReplayer(queue, nil)
	drained, err := replayer.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, drained)
	assert.Equal(t, "secret-token", gotHeader)
}

func TestReplayer_EmptyQueue(t *testing.T) {
	queue := newTestQueue(t)

	replayer := offlinequeue.NewReplayer(queue, nil)
	drained, err := replayer.Replay(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, drained)
}

func TestReplayer_DropsCorruptEntry(t *testing.T) {
	queue := newTestQueue(t)

	var mu sync.Mutex
	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// A method with a space can never be turned into a request again.
	require.NoError(t, queue.Enqueue(&models.QueuedRequest{
		URL:    server.URL + "/api/reports",
		Method: "BAD METHOD",
		Body:   []byte(`{"n":1}`),
		TS:     time.Now().UnixMilli(),
	}))
	enqueueRaw(t, queue, server.URL+"/api/reports", `{"n":2}`)

	replayer := offlinequeue.NewReplayer(queue, nil)
	drained, err := replayer.Replay(context.Background())
	require.NoError(t, err)

	// The corrupt head is discarded rather than wedging the queue, and
	// the well-formed item behind it still goes out.
	assert.Equal(t, 1, drained)
	assert.Equal(t, []string{`{"n":2}`}, received)

	count, err := queue.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAllowListFor(t *testing.T) {
	t.Run("extracts paths from destinations", func(t *testing.T) {
		paths := offlinequeue.AllowListFor(
			"https://hook.example.com/abc123xyz",
			"https://backend.example.com/api/reports",
		)
		assert.Equal(t, []string{"/abc123xyz", "/api/reports"}, paths)
	})

	t.Run("skips empty and pathless destinations", func(t *testing.T) {
		assert.Empty(t, offlinequeue.AllowListFor("", "https://hook.example.com"))
	})

	t.Run("derived list drives interception", func(t *testing.T) {
		queue := newTestQueue(t)
		allow := offlinequeue.AllowListFor("https://hook.example.com/abc123xyz")
		client := offlinequeue.NewTransport(deadTransport{}, queue, allow).Client(5 * time.Second)

		resp, err := client.Post("https://hook.example.com/abc123xyz", "application/json", bytes.NewBufferString("{}"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		count, err := queue.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
