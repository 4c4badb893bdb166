package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the user's access level, stored in the legacy "agility" column.
// The wire values are fixed by the existing clients.
type Role string

const (
	RoleSuper Role = "supa"
	RoleStaff Role = "staff"
	RoleUser  Role = "yuza"
)

// IsAdmin reports whether the role receives admin notifications and can
// access the admin surface.
func (r Role) IsAdmin() bool {
	return r == RoleSuper || r == RoleStaff
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuper, RoleStaff, RoleUser:
		return true
	}
	return false
}

// BillStatus is the billing/payment state gating card creation, stored in
// the legacy "bills" column.
type BillStatus string

const (
	BillPaid      BillStatus = "paid"
	BillUnpaid    BillStatus = "not paid"
	BillSuspended BillStatus = "suspended"
)

func (b BillStatus) Valid() bool {
	switch b {
	case BillPaid, BillUnpaid, BillSuspended:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string     `gorm:"size:100;not null" json:"username"`
	Email     string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Agility   Role       `gorm:"size:20;not null;default:'yuza';index" json:"agility"`
	Bills     BillStatus `gorm:"size:20;not null;default:'not paid'" json:"bills"`
	Photo     string     `gorm:"size:500" json:"photo"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
