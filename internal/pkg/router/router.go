package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hhtelecom/fieldcapture/app/controllers"
)

// InstallRouter wires the capture, ingestion and sync routes onto
// the app.
func InstallRouter(app *fiber.App, dc *controllers.DraftController, rc *controllers.ReportController, uc *controllers.UploadController, sc *controllers.SyncController) {
	api := app.Group("/api")

	// Capture side: draft saves, submission, per-slot photo capture.
	api.Post("/drafts", dc.HandleSaveDraft)
	api.Post("/drafts/submit", dc.HandleSubmit)
	api.Post("/drafts/:id/photos", dc.HandleCapture)
	api.Delete("/drafts", dc.HandleClear)

	// Ingestion endpoints.
	api.Post("/reports", rc.HandleSendReport)
	api.Post("/upload", uc.HandleUpload)

	api.Post("/sync", sc.HandleTriggerSync)
	api.Post("/queue/flush", sc.HandleFlushQueue)
	api.Get("/status", sc.HandleStatus)
}
