package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report status lifecycle. The literal values are part of the persisted-state
// contract and must not be renamed without a migration step.
const (
	ReportStatusDraft   = "draft"   // saved locally, not yet submitted
	ReportStatusPending = "pending" // submitted, awaiting remote upload
	ReportStatusSent    = "sent"    // confirmed present on the remote backend
)

// Report is one survey visit's full form state. The payload is an opaque
// snapshot owned by the form layer; photo fields inside it carry metadata
// only (names, URLs, coordinates), never raw binary.
type Report struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	SiteID    string         `gorm:"type:varchar(64)" json:"site_id"`
	Payload   datatypes.JSON `gorm:"type:text" json:"payload"`
	Status    string         `gorm:"type:varchar(16);index;not null;default:draft" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FindReportByID returns the report with the given id or gorm.ErrRecordNotFound.
func FindReportByID(db *gorm.DB, id string) (*Report, error) {
	var report Report
	if err := db.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}
