package services

import (
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"gorm.io/gorm"
)

// StatsService serves the admin dashboard aggregates. Counts are computed in
// single joined queries rather than per-row follow-up queries; the response
// shape (per-entity counts) matches what the dashboard expects.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// UsersWithCounts lists every user with their card and scan totals.
func (s *StatsService) UsersWithCounts() ([]dto.UserStats, error) {
	return s.usersWithCounts(s.db.Table("users"))
}

// StaffWithCounts lists staff accounts with their card and scan totals.
func (s *StatsService) StaffWithCounts() ([]dto.UserStats, error) {
	return s.usersWithCounts(s.db.Table("users").Where("users.agility = ?", models.RoleStaff))
}

func (s *StatsService) usersWithCounts(q *gorm.DB) ([]dto.UserStats, error) {
	var rows []dto.UserStats
	err := q.
		Select(`users.id, users.username, users.email, users.agility, users.bills, users.created_at,
			COUNT(DISTINCT vcards.id) AS card_count,
			COUNT(DISTINCT scan_logs.id) AS scan_count`).
		Joins("LEFT JOIN vcards ON vcards.user_id = users.id").
		Joins("LEFT JOIN scan_logs ON scan_logs.user_id = users.id").
		Group("users.id, users.username, users.email, users.agility, users.bills, users.created_at").
		Order("users.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// CardsWithCounts lists every card with its scan total.
func (s *StatsService) CardsWithCounts() ([]dto.CardStats, error) {
	var rows []dto.CardStats
	err := s.db.Table("vcards").
		Select(`vcards.id, vcards.user_id, vcards.name, vcards.title, vcards.created_at,
			COUNT(scan_logs.id) AS scan_count`).
		Joins("LEFT JOIN scan_logs ON scan_logs.card_id = vcards.id").
		Group("vcards.id, vcards.user_id, vcards.name, vcards.title, vcards.created_at").
		Order("vcards.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
