package services

import (
	"errors"
	"fmt"

	"github.com/charmcard/charm-backend/internal/metrics"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Event describes a mutation worth announcing: a title, a rendered message,
// and the entity it is about.
type Event struct {
	Title       string
	Message     string
	RelatedID   string
	RelatedType string
}

// NotificationService writes and serves notification rows. Fan-out targets
// every user holding an admin role at event time; with zero admins it is a
// silent no-op. The admin set is re-queried per event, so this scales with
// the number of admins — fine for a small, stable team, a queue would be
// needed beyond that.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyAdmins inserts one unread notification per current admin-role user.
// It runs on the given handle so callers can pass a transaction and have the
// fan-out commit or roll back with the triggering write.
func (s *NotificationService) NotifyAdmins(tx *gorm.DB, ev Event) (int64, error) {
	var admins []models.User
	if err := tx.Where("agility IN ?", []models.Role{models.RoleSuper, models.RoleStaff}).Find(&admins).Error; err != nil {
		return 0, fmt.Errorf("load admins: %w", err)
	}
	if len(admins) == 0 {
		return 0, nil
	}

	rows := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		rows = append(rows, models.Notification{
			UserID:      admin.ID,
			Title:       ev.Title,
			Message:     ev.Message,
			RelatedID:   ev.RelatedID,
			RelatedType: ev.RelatedType,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("insert admin notifications: %w", err)
	}

	metrics.NotificationsFannedOut.Add(float64(len(rows)))
	return int64(len(rows)), nil
}

// NotifyUser inserts one unread notification for a single recipient.
func (s *NotificationService) NotifyUser(tx *gorm.DB, userID uuid.UUID, ev Event) error {
	row := models.Notification{
		UserID:      userID,
		Title:       ev.Title,
		Message:     ev.Message,
		RelatedID:   ev.RelatedID,
		RelatedType: ev.RelatedType,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("insert user notification: %w", err)
	}
	metrics.NotificationsFannedOut.Inc()
	return nil
}

func (s *NotificationService) ListForUser(userID uuid.UUID) ([]models.Notification, error) {
	var rows []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

// MarkRead flips is_read on a single notification, scoped to the owner.
func (s *NotificationService) MarkRead(userID, id uuid.UUID) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification of the requesting user only.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *NotificationService) Delete(userID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) DeleteAll(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}
