package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VCard is a digital business card owned by exactly one user. Contact lists
// and the socials map are stored as JSON columns.
type VCard struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string                      `gorm:"size:255;not null" json:"name"`
	Title      string                      `gorm:"size:255" json:"title"`
	Phones     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"phones"`
	Emails     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"emails"`
	Socials    datatypes.JSONMap           `gorm:"type:jsonb" json:"socials"`
	OtherLinks datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"other_links"`
	Photo      string                      `gorm:"size:500" json:"photo"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
	User       User                        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (v *VCard) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
