package models

import (
	"gorm.io/datatypes"
)

// QueuedRequest is one raw HTTP request captured by the offline interception
// layer. It knows nothing about reports or photos; it is a second, coarser
// durability path over arbitrary POST bodies. Replay order is the insertion
// order of the auto-incrementing id.
type QueuedRequest struct {
	ID      uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	URL     string         `gorm:"type:varchar(512);not null" json:"url"`
	Method  string         `gorm:"type:varchar(8);not null" json:"method"`
	Headers datatypes.JSON `gorm:"type:text" json:"headers"`
	Body    []byte         `gorm:"type:blob" json:"body,omitempty"`
	TS      int64          `gorm:"not null" json:"ts"`
}
