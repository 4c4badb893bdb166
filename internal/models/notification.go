package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Related entity types carried on notifications.
const (
	RelatedUser     = "user"
	RelatedCard     = "card"
	RelatedScan     = "scan"
	RelatedContact  = "contact"
	RelatedFeedback = "feedback"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	RelatedID   string    `gorm:"size:64" json:"related_id"`
	RelatedType string    `gorm:"size:30" json:"related_type"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
