package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/geo"
	"github.com/charmcard/charm-backend/internal/metrics"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanMeta is the device side of scan telemetry, pulled from request
// headers by the handler.
type ScanMeta struct {
	IP        string
	UserAgent string
	Platform  string
}

// ScanService ingests QR scans: it persists the scan log and fans out
// notifications to the admins and the card owner in one transaction, so a
// failure mid-sequence leaves no partial state.
type ScanService struct {
	db            *gorm.DB
	notifications *NotificationService
	geocoder      geo.Geocoder
}

func NewScanService(db *gorm.DB, notifications *NotificationService, geocoder geo.Geocoder) *ScanService {
	return &ScanService{db: db, notifications: notifications, geocoder: geocoder}
}

// Track records one scan of the card and returns the card so the handler can
// render the contact-file payload. A missing card writes nothing.
func (s *ScanService) Track(ctx context.Context, cardID uuid.UUID, req *dto.TrackRequest, meta ScanMeta) (*models.VCard, error) {
	var card models.VCard
	if err := s.db.First(&card, "id = ?", cardID).Error; err != nil {
		return nil, ErrCardNotFound
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", card.UserID).Error; err != nil {
		return nil, fmt.Errorf("card owner lookup: %w", err)
	}

	log := models.ScanLog{
		CardID:    card.ID,
		UserID:    card.UserID,
		IP:        meta.IP,
		City:      req.City,
		Country:   req.Country,
		UserAgent: meta.UserAgent,
		Platform:  meta.Platform,
	}
	if req.Location != nil {
		lat, lng := req.Location.Latitude, req.Location.Longitude
		log.Latitude = &lat
		log.Longitude = &lng

		if log.City == "" && log.Country == "" {
			// Best effort: an unreachable geocoder must not block the scan.
			if place, err := s.geocoder.Reverse(ctx, lat, lng); err != nil {
				slog.Warn("reverse geocode failed", "error", err, "card_id", card.ID.String())
			} else {
				log.City = place.City
				log.Country = place.Country
			}
		}
	}

	where := log.City
	if where == "" {
		where = "an unknown location"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&log).Error; err != nil {
			return fmt.Errorf("insert scan log: %w", err)
		}
		ev := Event{
			Title:       "Card scanned",
			Message:     fmt.Sprintf("Card %q of %s was scanned from %s", card.Name, owner.Username, where),
			RelatedID:   log.ID.String(),
			RelatedType: models.RelatedScan,
		}
		if _, err := s.notifications.NotifyAdmins(tx, ev); err != nil {
			return err
		}
		return s.notifications.NotifyUser(tx, owner.ID, Event{
			Title:       "Your card was scanned",
			Message:     fmt.Sprintf("Card %q was scanned from %s", card.Name, where),
			RelatedID:   log.ID.String(),
			RelatedType: models.RelatedScan,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.ScansTotal.Inc()
	return &card, nil
}

// LogsByCard lists scan history for one card, newest first.
func (s *ScanService) LogsByCard(cardID uuid.UUID) ([]models.ScanLog, error) {
	var logs []models.ScanLog
	err := s.db.Where("card_id = ?", cardID).Order("scanned_at DESC").Find(&logs).Error
	return logs, err
}

// LogsByOwner lists scan history across all cards the user owns.
func (s *ScanService) LogsByOwner(userID uuid.UUID) ([]models.ScanLog, error) {
	var logs []models.ScanLog
	err := s.db.Where("user_id = ?", userID).Order("scanned_at DESC").Find(&logs).Error
	return logs, err
}

// AllLogs lists every scan, for the admin dashboard.
func (s *ScanService) AllLogs() ([]models.ScanLog, error) {
	var logs []models.ScanLog
	err := s.db.Order("scanned_at DESC").Find(&logs).Error
	return logs, err
}
