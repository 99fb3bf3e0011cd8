package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/offlinequeue"
	"github.com/hhtelecom/fieldcapture/internal/pkg/syncengine"
)

// SyncController exposes the manual sync trigger, the offline queue
// flush, and the status poll the UI drives its badges from.
type SyncController struct {
	engine   *syncengine.Engine
	replayer *offlinequeue.Replayer
	reports  repository.ReportRepository
	photos   repository.PhotoRepository
	queue    repository.QueueRepository
}

// NewSyncController creates the sync controller
func NewSyncController(engine *syncengine.Engine, replayer *offlinequeue.Replayer, repos *repository.Repositories) *SyncController {
	return &SyncController{
		engine:   engine,
		replayer: replayer,
		reports:  repos.Report,
		photos:   repos.Photo,
		queue:    repos.Queue,
	}
}

// HandleTriggerSync runs one sync pass on explicit user request.
func (sc *SyncController) HandleTriggerSync(c *fiber.Ctx) error {
	summary, err := sc.engine.Run(c.Context())
	if errors.Is(err, syncengine.ErrSyncInFlight) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a sync pass is already running"})
	}
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Sync] manual pass failed: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "sync pass failed"})
	}
	return c.JSON(fiber.Map{"ok": true, "reports": summary.Reports, "photos": summary.Photos})
}

// HandleFlushQueue replays the offline request queue on explicit request.
func (sc *SyncController) HandleFlushQueue(c *fiber.Ctx) error {
	replayed, err := sc.replayer.Replay(c.Context())
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[OfflineQueue] flush failed: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "queue flush failed"})
	}
	return c.JSON(fiber.Map{"ok": true, "replayed": replayed})
}

// HandleStatus reports what is still waiting to leave the device.
func (sc *SyncController) HandleStatus(c *fiber.Ctx) error {
	pendingReports, err := sc.reports.GetByStatus(models.ReportStatusPending)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read store"})
	}
	pendingPhotos, err := sc.photos.GetByStatus(models.PhotoStatusPending)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read store"})
	}
	queued, err := sc.queue.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read store"})
	}
	return c.JSON(fiber.Map{
		"pending_reports": len(pendingReports),
		"pending_photos":  len(pendingPhotos),
		"queued_requests": queued,
	})
}
