package services

import (
	"errors"
	"fmt"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"gorm.io/gorm"
)

// ContactService records complaints and feedback and announces them to the
// admins.
type ContactService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewContactService(db *gorm.DB, notifications *NotificationService) *ContactService {
	return &ContactService{db: db, notifications: notifications}
}

func (s *ContactService) SubmitComplaint(req *dto.ComplaintRequest) (*models.Complaint, error) {
	if req.Name == "" || req.Email == "" || req.Title == "" {
		return nil, errors.New("name, email and title are required")
	}

	row := models.Complaint{
		Name:        req.Name,
		Email:       req.Email,
		Title:       req.Title,
		Description: req.Description,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store complaint: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "New complaint",
			Message:     fmt.Sprintf("%s filed a complaint: %s", row.Name, row.Title),
			RelatedID:   row.ID.String(),
			RelatedType: models.RelatedContact,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *ContactService) SubmitFeedback(req *dto.FeedbackRequest) (*models.Feedback, error) {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return nil, errors.New("name, email and message are required")
	}

	row := models.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store feedback: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "New feedback",
			Message:     fmt.Sprintf("%s left feedback", row.Name),
			RelatedID:   row.ID.String(),
			RelatedType: models.RelatedFeedback,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *ContactService) ListComplaints() ([]models.Complaint, error) {
	var rows []models.Complaint
	err := s.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (s *ContactService) ListFeedback() ([]models.Feedback, error) {
	var rows []models.Feedback
	err := s.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}
