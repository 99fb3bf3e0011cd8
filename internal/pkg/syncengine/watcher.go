package syncengine

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// WatchInterval is how often connectivity is polled.
const WatchInterval = 30 * time.Second

// WatchConnectivity polls the online check and invokes onOnline on
// every offline-to-online transition (the analogue of the browser's
// "online" event). The state starts as offline so pending work left
// over from a previous run drains on the first online tick.
func WatchConnectivity(ctx context.Context, interval time.Duration, online func() bool, onOnline func()) {
	if interval <= 0 {
		interval = WatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasOnline := false
	for {
		select {
		case <-ctx.Done():
			log.Info("[Sync] connectivity watcher stopped")
			return
		case <-ticker.C:
			nowOnline := online()
			if nowOnline && !wasOnline {
				log.Info("[Sync] connectivity restored")
				onOnline()
			}
			wasOnline = nowOnline
		}
	}
}
