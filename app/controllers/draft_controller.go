package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
	"github.com/hhtelecom/fieldcapture/internal/pkg/workflow"
)

// DraftController exposes the capture-side surface: saving drafts,
// submitting them for sync, attaching photos to field slots, and the
// explicit clear-all action.
type DraftController struct {
	flow     *workflow.Workflow
	pipeline *capture.Pipeline
	reports  repository.ReportRepository
	photos   repository.PhotoRepository
}

// NewDraftController creates the draft controller
func NewDraftController(flow *workflow.Workflow, pipeline *capture.Pipeline, reports repository.ReportRepository, photos repository.PhotoRepository) *DraftController {
	return &DraftController{flow: flow, pipeline: pipeline, reports: reports, photos: photos}
}

type draftRequest struct {
	ReportID string          `json:"report_id"`
	SiteID   string          `json:"site_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// snapshotFor builds a workflow snapshot from the request plus the
// photos already stored for the report, so a save round-trips the
// captured blobs instead of wiping them.
func (dc *DraftController) snapshotFor(req draftRequest) (workflow.Snapshot, error) {
	photos, err := dc.photos.GetByReport(req.ReportID)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return workflow.Snapshot{
		ReportID: req.ReportID,
		SiteID:   req.SiteID,
		Payload:  req.Payload,
		Photos:   photos,
	}, nil
}

// HandleSaveDraft persists the current form state with status draft.
// A new report id is minted when the client does not have one yet.
func (dc *DraftController) HandleSaveDraft(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ReportID == "" {
		req.ReportID = uuid.New().String()
	}

	snapshot, err := dc.snapshotFor(req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read stored photos"})
	}
	if err := dc.flow.SaveDraft(snapshot); err != nil {
		if errors.Is(err, workflow.ErrSaveInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a save is already in progress"})
		}
		fiberlog.Error(fmt.Sprintf("[Workflow] draft save failed: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save draft"})
	}

	return c.JSON(fiber.Map{"ok": true, "report_id": req.ReportID, "status": models.ReportStatusDraft})
}

// HandleSubmit moves the report and its photo set to pending. The
// site identifier is the one hard validation rule.
func (dc *DraftController) HandleSubmit(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ReportID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "report_id is required"})
	}

	snapshot, err := dc.snapshotFor(req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read stored photos"})
	}
	if err := dc.flow.Submit(snapshot); err != nil {
		if errors.Is(err, workflow.ErrSiteIDRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "site_id is required before submitting"})
		}
		if errors.Is(err, workflow.ErrSaveInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "a save is already in progress"})
		}
		fiberlog.Error(fmt.Sprintf("[Workflow] submit failed: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to submit report"})
	}

	return c.JSON(fiber.Map{"ok": true, "report_id": req.ReportID, "status": models.ReportStatusPending})
}

// HandleCapture runs one multipart "file" through the capture pipeline
// for a field slot of a stored draft and persists the photo record.
// Form fields: field (required), slot, slots, require_coords.
func (dc *DraftController) HandleCapture(c *fiber.Ctx) error {
	report, err := dc.reports.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "report not found"})
	}

	fieldKey := c.FormValue("field")
	if fieldKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field is required"})
	}
	slot, _ := strconv.Atoi(c.FormValue("slot", "0"))
	slotCount, _ := strconv.Atoi(c.FormValue("slots", "1"))
	def := capture.FieldDef{
		Key:           fieldKey,
		Kind:          capture.KindSingle,
		RequireCoords: c.FormValue("require_coords") == "true",
	}
	if slotCount > 1 {
		def.Kind = capture.KindFixedSlots
		def.SlotCount = slotCount
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open uploaded file"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read uploaded file"})
	}

	photo, err := dc.pipeline.Capture(c.Context(), report, def, slot, capture.File{Name: fileHeader.Filename, Data: data})
	if err != nil {
		if errors.Is(err, capture.ErrFileTooLarge) {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := dc.photos.UpsertBatch([]models.Photo{*photo}); err != nil {
		fiberlog.Error(fmt.Sprintf("[Capture] storing photo %s failed: %v", photo.ID, err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store photo"})
	}

	resp := fiber.Map{
		"photo_id":  photo.ID,
		"file_name": photo.FileName,
		"field_key": photo.FieldKey,
	}
	if photo.HasCoords() {
		resp["lat"] = *photo.Lat
		resp["lng"] = *photo.Lng
	}
	return c.JSON(resp)
}

// HandleClear purges every report and photo on explicit user request.
func (dc *DraftController) HandleClear(c *fiber.Ctx) error {
	if err := dc.flow.ClearAll(); err != nil {
		fiberlog.Error(fmt.Sprintf("[Workflow] clear all failed: %v", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear local data"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
