package repository

import (
	"gorm.io/gorm"
)

// Repositories bundles all store repositories over one database handle.
// The handle is owned by the composition root and injected here; nothing
// in this package keeps process-wide state.
type Repositories struct {
	Report ReportRepository
	Photo  PhotoRepository
	Queue  QueueRepository
}

// NewRepositories creates all repository instances for the given handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Report: NewReportRepository(db),
		Photo:  NewPhotoRepository(db),
		Queue:  NewQueueRepository(db),
	}
}
