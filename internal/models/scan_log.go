package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanLog is an immutable audit record of one QR scan. CardID deliberately
// carries no foreign key: scan history must survive card deletion.
type ScanLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CardID    uuid.UUID `gorm:"type:uuid;not null;index" json:"card_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	IP        string    `gorm:"size:64" json:"ip"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	City      string    `gorm:"size:120" json:"city"`
	Country   string    `gorm:"size:120" json:"country"`
	UserAgent string    `gorm:"size:500" json:"user_agent"`
	Platform  string    `gorm:"size:60" json:"platform"`
	ScannedAt time.Time `gorm:"not null;index" json:"scanned_at"`
}

func (s *ScanLog) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ScannedAt.IsZero() {
		s.ScannedAt = time.Now().UTC()
	}
	return nil
}
