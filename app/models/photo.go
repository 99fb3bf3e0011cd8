package models

import (
	"time"
)

// Photo status lifecycle. Persisted-state contract, same rule as reports.
const (
	PhotoStatusDraft    = "draft"
	PhotoStatusPending  = "pending"
	PhotoStatusUploaded = "uploaded"
)

// Photo is one captured image belonging to a report. The blob is owned
// exclusively by this record until it has been uploaded. ReportID is a
// back-reference only; the relation is reconstructed via the index.
type Photo struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	ReportID  string    `gorm:"type:char(36);index;not null" json:"report_id"`
	FieldKey  string    `gorm:"type:varchar(128);not null" json:"field_key"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	Blob      []byte    `gorm:"type:blob" json:"-"`
	Status    string    `gorm:"type:varchar(16);index;not null;default:draft" json:"status"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	RemoteURL string    `gorm:"type:varchar(512)" json:"remote_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HasCoords reports whether a geolocation tag was captured for this photo.
func (p *Photo) HasCoords() bool {
	return p.Lat != nil && p.Lng != nil
}
