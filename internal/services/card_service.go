package services

import (
	"errors"
	"fmt"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCardNotFound    = errors.New("card not found")
	ErrNotCardOwner    = errors.New("not the card owner")
	ErrBillingRequired = errors.New("billing status does not allow card creation")
)

type CardService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewCardService(db *gorm.DB, notifications *NotificationService) *CardService {
	return &CardService{db: db, notifications: notifications}
}

// Create makes a new card for the user. Card creation is gated on a paid
// billing status.
func (s *CardService) Create(userID uuid.UUID, req *dto.CardRequest, photoPath string) (*models.VCard, error) {
	if req.Name == "" {
		return nil, errors.New("card name is required")
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	if owner.Bills != models.BillPaid {
		return nil, ErrBillingRequired
	}

	card := models.VCard{
		UserID:     userID,
		Name:       req.Name,
		Title:      req.Title,
		Phones:     datatypes.NewJSONSlice(req.Phones),
		Emails:     datatypes.NewJSONSlice(req.Emails),
		Socials:    socialsMap(req.Socials),
		OtherLinks: datatypes.NewJSONSlice(req.OtherLinks),
		Photo:      photoPath,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&card).Error; err != nil {
			return fmt.Errorf("failed to create card: %w", err)
		}
		ev := Event{
			Title:       "Card created",
			Message:     fmt.Sprintf("%s created card %q", owner.Username, card.Name),
			RelatedID:   card.ID.String(),
			RelatedType: models.RelatedCard,
		}
		if _, err := s.notifications.NotifyAdmins(tx, ev); err != nil {
			return err
		}
		return s.notifications.NotifyUser(tx, userID, Event{
			Title:       "Card created",
			Message:     fmt.Sprintf("Your card %q is live", card.Name),
			RelatedID:   card.ID.String(),
			RelatedType: models.RelatedCard,
		})
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CardService) ListByOwner(userID uuid.UUID) ([]models.VCard, error) {
	var cards []models.VCard
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&cards).Error
	return cards, err
}

// Get returns a card if the requester owns it or holds an admin role.
func (s *CardService) Get(id, requesterID uuid.UUID, role models.Role) (*models.VCard, error) {
	card, err := s.GetPublic(id)
	if err != nil {
		return nil, err
	}
	if card.UserID != requesterID && !role.IsAdmin() {
		return nil, ErrNotCardOwner
	}
	return card, nil
}

// GetPublic returns a card with no access check; the scan landing view.
func (s *CardService) GetPublic(id uuid.UUID) (*models.VCard, error) {
	var card models.VCard
	if err := s.db.First(&card, "id = ?", id).Error; err != nil {
		return nil, ErrCardNotFound
	}
	return &card, nil
}

// Update rewrites the card's contact fields. An empty photoPath keeps the
// stored photo.
func (s *CardService) Update(id, requesterID uuid.UUID, role models.Role, req *dto.CardRequest, photoPath string) (*models.VCard, error) {
	card, err := s.Get(id, requesterID, role)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		card.Name = req.Name
	}
	card.Title = req.Title
	card.Phones = datatypes.NewJSONSlice(req.Phones)
	card.Emails = datatypes.NewJSONSlice(req.Emails)
	card.Socials = socialsMap(req.Socials)
	card.OtherLinks = datatypes.NewJSONSlice(req.OtherLinks)
	if photoPath != "" {
		card.Photo = photoPath
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(card).Error; err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "Card updated",
			Message:     fmt.Sprintf("Card %q was updated", card.Name),
			RelatedID:   card.ID.String(),
			RelatedType: models.RelatedCard,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Delete removes the card. Scan logs referencing it are retained.
func (s *CardService) Delete(id, requesterID uuid.UUID, role models.Role) error {
	card, err := s.Get(id, requesterID, role)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(card).Error; err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "Card deleted",
			Message:     fmt.Sprintf("Card %q was deleted", card.Name),
			RelatedID:   card.ID.String(),
			RelatedType: models.RelatedCard,
		})
		return err
	})
}

func socialsMap(m map[string]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
