package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
)

// AutosaveInterval is the fixed period of the background draft flush.
const AutosaveInterval = 10 * time.Second

// ErrSaveInFlight is returned when a save arrives while another one is
// running. The request is dropped, not queued; the next autosave tick
// picks up the latest state anyway.
var ErrSaveInFlight = errors.New("a save is already in progress")

// ErrSiteIDRequired is the one hard validation rule of the workflow:
// submission is refused without a site identifier.
var ErrSiteIDRequired = errors.New("site identifier is required before submitting")

// Snapshot is the serialized in-memory form state at save time, plus
// the freshly rebuilt photo set. The payload is opaque to the store and
// carries photo metadata only, never blobs.
type Snapshot struct {
	ReportID string
	SiteID   string
	Payload  json.RawMessage
	Photos   []models.Photo
}

// Empty reports whether the snapshot has nothing worth persisting.
func (s *Snapshot) Empty() bool {
	return s == nil || (s.SiteID == "" && len(s.Photos) == 0 && len(s.Payload) == 0)
}

// Workflow drives a report through draft -> pending; "sent" is reached
// only by the sync engine, never set here.
type Workflow struct {
	reports  repository.ReportRepository
	photos   repository.PhotoRepository
	validate *validator.Validate

	online  func() bool
	syncNow func()

	mu     sync.Mutex
	saving bool
}

// New creates a workflow over the injected store repositories. online
// reports current connectivity; syncNow triggers an immediate sync pass
// after a successful submit while online.
func New(reports repository.ReportRepository, photos repository.PhotoRepository, online func() bool, syncNow func()) *Workflow {
	return &Workflow{
		reports:  reports,
		photos:   photos,
		validate: validator.New(),
		online:   online,
		syncNow:  syncNow,
	}
}

// SaveDraft persists the snapshot with status draft: the report record
// is upserted and the report's photo set replaced as one logical write.
// Storage errors are returned for the caller to surface.
func (w *Workflow) SaveDraft(s Snapshot) error {
	if !w.beginSave() {
		return ErrSaveInFlight
	}
	defer w.endSave()

	return w.writeSnapshot(s, models.ReportStatusDraft, models.PhotoStatusDraft)
}

type submitInput struct {
	SiteID string `validate:"required"`
}

// Submit moves the report and its full photo set to pending. The site
// identifier is required; without it the submission is refused and no
// partial state is written. While online, a sync pass is triggered
// immediately; otherwise the records wait for the next connectivity
// event.
func (w *Workflow) Submit(s Snapshot) error {
	if err := w.validate.Struct(submitInput{SiteID: s.SiteID}); err != nil {
		return ErrSiteIDRequired
	}

	if !w.beginSave() {
		return ErrSaveInFlight
	}
	defer w.endSave()

	if err := w.writeSnapshot(s, models.ReportStatusPending, models.PhotoStatusPending); err != nil {
		return err
	}

	if w.online != nil && w.online() && w.syncNow != nil {
		w.syncNow()
	}
	return nil
}

// AutosaveLoop flushes the current form state every AutosaveInterval
// while it has at least one non-empty field. Autosave is silent; a
// failed tick is logged and retried on the next one.
func (w *Workflow) AutosaveLoop(ctx context.Context, snapshot func() *Snapshot) {
	ticker := time.NewTicker(AutosaveInterval)
	defer ticker.Stop()

	log.Info("[Workflow] autosave started")
	for {
		select {
		case <-ctx.Done():
			log.Info("[Workflow] autosave stopped")
			return
		case <-ticker.C:
			s := snapshot()
			if s.Empty() {
				continue
			}
			err := w.SaveDraft(*s)
			if err != nil && !errors.Is(err, ErrSaveInFlight) {
				log.Error(fmt.Sprintf("[Workflow] autosave failed: %v", err))
			}
		}
	}
}

// ClearAll purges every report and photo. Records are never deleted
// automatically; only this explicit action reaches the store deletes.
func (w *Workflow) ClearAll() error {
	if err := w.photos.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear photos: %w", err)
	}
	if err := w.reports.DeleteAll(); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}

func (w *Workflow) beginSave() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saving {
		return false
	}
	w.saving = true
	return true
}

func (w *Workflow) endSave() {
	w.mu.Lock()
	w.saving = false
	w.mu.Unlock()
}

// writeSnapshot upserts the report and replaces its photo set. Old
// photos for the report id are deleted first, then the new set is
// inserted in one transaction.
func (w *Workflow) writeSnapshot(s Snapshot, reportStatus, photoStatus string) error {
	now := time.Now()
	createdAt := now
	if existing, err := w.reports.GetByID(s.ReportID); err == nil {
		createdAt = existing.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to read report %s: %w", s.ReportID, err)
	}

	report := &models.Report{
		ID:        s.ReportID,
		SiteID:    s.SiteID,
		Payload:   datatypes.JSON(s.Payload),
		Status:    reportStatus,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := w.reports.Upsert(report); err != nil {
		return fmt.Errorf("failed to save report %s: %w", s.ReportID, err)
	}

	if err := w.photos.DeleteByReport(s.ReportID); err != nil {
		return fmt.Errorf("failed to clear previous photos of report %s: %w", s.ReportID, err)
	}

	photos := make([]models.Photo, 0, len(s.Photos))
	for _, p := range s.Photos {
		p.ReportID = s.ReportID
		p.Status = photoStatus
		photos = append(photos, p)
	}
	if err := w.photos.UpsertBatch(photos); err != nil {
		return fmt.Errorf("failed to save photos of report %s: %w", s.ReportID, err)
	}
	return nil
}
