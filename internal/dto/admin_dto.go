package dto

import (
	"time"

	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
)

type CreateStaffRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdateBillsRequest struct {
	Bills models.BillStatus `json:"bills"`
}

// UserStats is one row of the admin user listing: the user plus aggregate
// card and scan counts.
type UserStats struct {
	ID        uuid.UUID         `json:"id"`
	Username  string            `json:"username"`
	Email     string            `json:"email"`
	Agility   models.Role       `json:"agility"`
	Bills     models.BillStatus `json:"bills"`
	CreatedAt time.Time         `json:"created_at"`
	CardCount int64             `json:"card_count"`
	ScanCount int64             `json:"scan_count"`
}

// CardStats is one row of the admin card listing with its scan count.
type CardStats struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	ScanCount int64     `json:"scan_count"`
}
