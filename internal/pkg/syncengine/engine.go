package syncengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/gofiber/fiber/v2/log"

	"github.com/hhtelecom/fieldcapture/app/models"
	"github.com/hhtelecom/fieldcapture/app/repository"
	"github.com/hhtelecom/fieldcapture/internal/pkg/capture"
)

// ErrSyncInFlight is returned when a pass is triggered while another
// one is running. The second trigger is ignored, not queued.
var ErrSyncInFlight = errors.New("a sync pass is already running")

const uploadAttempts = 2

// ObjectStorage uploads photo blobs and returns their public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ReportRow is the remote reports-table shape.
type ReportRow struct {
	ID        string          `json:"id"`
	SiteID    string          `json:"site_id,omitempty"`
	Payload   json.RawMessage `json:"payload_json"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PhotoRow is the remote photos-table shape.
type PhotoRow struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	FieldKey  string    `json:"field_key,omitempty"`
	FileName  string    `json:"file_name"`
	RemoteURL string    `json:"remote_url"`
	Status    string    `json:"status"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RemoteTables upserts rows into the remote database.
type RemoteTables interface {
	UpsertReport(ctx context.Context, row ReportRow) error
	UpsertPhoto(ctx context.Context, row PhotoRow) error
	MarkReportSent(ctx context.Context, id string, updatedAt time.Time) error
}

// ProgressFunc is invoked after every successful photo upload so the
// UI can render a determinate progress bar.
type ProgressFunc func(done, total int)

// Summary reports what one sync pass accomplished.
type Summary struct {
	Reports int // pending reports seen by the pass
	Photos  int // photos uploaded during the pass
}

// Engine drains all pending reports and photos to the remote backend.
// Items that fail stay pending and are retried on the next pass; one
// item's failure never stops the rest of the pass.
type Engine struct {
	reports    repository.ReportRepository
	photos     repository.PhotoRepository
	storage    ObjectStorage
	remote     RemoteTables
	online     func() bool
	onProgress ProgressFunc

	mu      sync.Mutex
	running bool
}

// New creates a sync engine. storage and remote may be nil when the
// backend is not configured; every pass is then skipped.
func New(reports repository.ReportRepository, photos repository.PhotoRepository, storage ObjectStorage, remote RemoteTables, online func() bool, onProgress ProgressFunc) *Engine {
	return &Engine{
		reports:    reports,
		photos:     photos,
		storage:    storage,
		remote:     remote,
		online:     online,
		onProgress: onProgress,
	}
}

// Configured reports whether the remote backend is wired up.
func (e *Engine) Configured() bool {
	return e.storage != nil && e.remote != nil
}

// TriggerAsync starts a pass in the background. Used by the submit
// path and the connectivity listener; an already-running pass makes
// this a no-op.
func (e *Engine) TriggerAsync(ctx context.Context) {
	go func() {
		if _, err := e.Run(ctx); err != nil && !errors.Is(err, ErrSyncInFlight) {
			log.Error(fmt.Sprintf("[Sync] background pass failed: %v", err))
		}
	}()
}

// Run performs one sync pass. Connectivity is checked once at pass
// start; a pass that loses the network midway surfaces per-item errors
// instead of aborting.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	if !e.begin() {
		return nil, ErrSyncInFlight
	}
	defer e.end()

	if !e.Configured() {
		log.Info("[Sync] remote backend not configured, skipping pass")
		return &Summary{}, nil
	}
	if e.online != nil && !e.online() {
		log.Info("[Sync] device offline, skipping pass")
		return &Summary{}, nil
	}

	pendingReports, err := e.reports.GetByStatus(models.ReportStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending reports: %w", err)
	}
	pendingPhotos, err := e.photos.GetByStatus(models.PhotoStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending photos: %w", err)
	}
	log.Info(fmt.Sprintf("[Sync] pass started: %d pending reports, %d pending photos", len(pendingReports), len(pendingPhotos)))

	// Report metadata goes first, best-effort. Photos are the larger
	// risk of loss, so their upload proceeds regardless.
	for _, r := range pendingReports {
		row := ReportRow{
			ID:        r.ID,
			SiteID:    r.SiteID,
			Payload:   json.RawMessage(r.Payload),
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		}
		if err := e.remote.UpsertReport(ctx, row); err != nil {
			log.Error(fmt.Sprintf("[Sync] report %s upsert failed: %v", r.ID, err))
		}
	}

	pendingByReport := make(map[string]int)
	for _, p := range pendingPhotos {
		pendingByReport[p.ReportID]++
	}

	total := len(pendingPhotos)
	done := 0
	for _, photo := range pendingPhotos {
		if !e.uploadPhoto(ctx, photo) {
			continue
		}
		done++
		pendingByReport[photo.ReportID]--
		if pendingByReport[photo.ReportID] <= 0 {
			e.markReportSent(ctx, photo.ReportID)
		}
		if e.onProgress != nil {
			e.onProgress(done, total)
		}
	}

	// Reports with no pending photos to begin with are sent right away.
	for _, r := range pendingReports {
		if _, hasPhotos := pendingByReport[r.ID]; !hasPhotos {
			e.markReportSent(ctx, r.ID)
		}
	}

	log.Info(fmt.Sprintf("[Sync] pass finished: %d/%d photos uploaded", done, total))
	return &Summary{Reports: len(pendingReports), Photos: done}, nil
}

// uploadPhoto uploads one blob and records the remote metadata row. On
// any failure the local photo stays pending, eligible for the next
// pass.
func (e *Engine) uploadPhoto(ctx context.Context, photo models.Photo) bool {
	key := fmt.Sprintf("%s/%s-%s", photo.ReportID, photo.ID, capture.SanitizeFileName(photo.FileName))

	var remoteURL string
	err := retry.Do(
		func() error {
			var uploadErr error
			remoteURL, uploadErr = e.storage.Upload(ctx, key, photo.Blob, contentTypeFor(photo.FileName))
			return uploadErr
		},
		retry.Attempts(uploadAttempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Error(fmt.Sprintf("[Sync] photo %s upload failed: %v", photo.ID, err))
		return false
	}

	row := PhotoRow{
		ID:        photo.ID,
		ReportID:  photo.ReportID,
		FieldKey:  photo.FieldKey,
		FileName:  photo.FileName,
		RemoteURL: remoteURL,
		Status:    models.PhotoStatusUploaded,
		Lat:       photo.Lat,
		Lng:       photo.Lng,
		CreatedAt: photo.CreatedAt,
	}
	if err := e.remote.UpsertPhoto(ctx, row); err != nil {
		log.Error(fmt.Sprintf("[Sync] photo %s metadata upsert failed: %v", photo.ID, err))
		return false
	}

	if err := e.photos.UpdateStatus(photo.ID, models.PhotoStatusUploaded, remoteURL); err != nil {
		log.Error(fmt.Sprintf("[Sync] photo %s local status update failed: %v", photo.ID, err))
		return false
	}
	return true
}

func (e *Engine) markReportSent(ctx context.Context, reportID string) {
	now := time.Now()
	if err := e.reports.UpdateStatus(reportID, models.ReportStatusSent, now); err != nil {
		log.Error(fmt.Sprintf("[Sync] report %s local sent update failed: %v", reportID, err))
	}
	if err := e.remote.MarkReportSent(ctx, reportID, now); err != nil {
		log.Error(fmt.Sprintf("[Sync] report %s remote sent update failed: %v", reportID, err))
	}
}

func (e *Engine) begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return false
	}
	e.running = true
	return true
}

func (e *Engine) end() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

// contentTypeFor returns the MIME type based on file extension
func contentTypeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
