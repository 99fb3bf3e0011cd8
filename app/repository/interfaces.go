package repository

import (
	"time"

	"github.com/hhtelecom/fieldcapture/app/models"
)

// ReportRepository defines the report operations of the local durable store.
type ReportRepository interface {
	// Upsert inserts or fully replaces a report by id.
	Upsert(report *models.Report) error
	GetByID(id string) (*models.Report, error)
	// GetByStatus returns all reports with the given status via the
	// status index, in no particular order.
	GetByStatus(status string) ([]models.Report, error)
	// UpdateStatus is a read-modify-write that is a no-op when the id
	// is absent. It never creates a phantom record.
	UpdateStatus(id string, status string, updatedAt time.Time) error
	Count() (int64, error)
	DeleteAll() error
}

// PhotoRepository defines the photo operations of the local durable store.
type PhotoRepository interface {
	// UpsertBatch inserts or replaces all photos inside one transaction.
	// A crash mid-batch never leaves a partial photo set committed.
	UpsertBatch(photos []models.Photo) error
	GetByStatus(status string) ([]models.Photo, error)
	// GetByReport returns every photo owned by the report, via the
	// report_id index.
	GetByReport(reportID string) ([]models.Photo, error)
	CountByReport(reportID string) (int64, error)
	// DeleteByReport removes every photo of the report. Used before a
	// report's photo set is rewritten, so stale entries from a previous
	// save cannot survive.
	DeleteByReport(reportID string) error
	// UpdateStatus advances a photo's status; remoteURL is recorded when
	// non-empty. No-op when the id is absent.
	UpdateStatus(id string, status string, remoteURL string) error
	DeleteAll() error
}

// QueueRepository persists raw HTTP requests captured by the offline
// interception layer.
type QueueRepository interface {
	Enqueue(req *models.QueuedRequest) error
	// All returns the queue in insertion order.
	All() ([]models.QueuedRequest, error)
	Delete(id uint) error
	Count() (int64, error)
}
