package syncengine_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hhtelecom/fieldcapture/internal/pkg/syncengine"
)

func TestWatchConnectivity_FiresOnTransition(t *testing.T) {
	var connected atomic.Bool
	var fired atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go syncengine.WatchConnectivity(ctx, 5*time.Millisecond,
		func() bool { return connected.Load() },
		func() { fired.Add(1) },
	)

	// Offline: nothing fires.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	// Going online fires exactly once, not on every tick.
	connected.Store(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	// A second offline/online cycle fires again.
	connected.Store(false)
	time.Sleep(30 * time.Millisecond)
	connected.Store(true)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), fired.Load())
}

func TestWatchConnectivity_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		syncengine.WatchConnectivity(ctx, 5*time.Millisecond, func() bool { return false }, func() {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after context cancel")
	}
}
