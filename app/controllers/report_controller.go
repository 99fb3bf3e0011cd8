package controllers

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/export"
)

// ReportController exposes the report ingestion endpoint: it assembles
// the export payload for a locally stored report and forwards it to
// the webhook integration.
type ReportController struct {
	reports repository.ReportRepository
	photos  repository.PhotoRepository
	webhook *export.WebhookSender
}

// NewReportController creates the report ingestion controller
func NewReportController(reports repository.ReportRepository, photos repository.PhotoRepository, webhook *export.WebhookSender) *ReportController {
	return &ReportController{reports: reports, photos: photos, webhook: webhook}
}

type sendReportRequest struct {
	ReportID string          `json:"report_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// HandleSendReport forwards one report to the webhook integration.
// Request: JSON { "report_id": "..." } for a stored report, or an
// inline payload for an unsaved one.
func (rc *ReportController) HandleSendReport(c *fiber.Ctx) error {
	var req sendReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var report *models.Report
	var photos []models.Photo
	if req.ReportID != "" {
		var err error
		report, err = rc.reports.GetByID(req.ReportID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found"})
		}
		photos, err = rc.photos.GetByReport(req.ReportID)
		if err != nil {
			fiberlog.Error(fmt.Sprintf("[Ingest] loading photos of %s failed: %v", req.ReportID, err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load report photos"})
		}
	} else if len(req.Payload) > 0 {
		report = &models.Report{Payload: []byte(req.Payload)}
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "report_id or payload is required"})
	}

	payload := export.BuildChecklistPayload(report, photos)
	if err := rc.webhook.Send(c.Context(), payload); err != nil {
		fiberlog.Error(fmt.Sprintf("[Ingest] webhook send failed: %v", err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to deliver report"})
	}

	return c.JSON(fiber.Map{"ok": true, "relatorio_id": payload.RelatorioID})
}
