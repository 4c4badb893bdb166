package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/mail"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotStaff          = errors.New("user is not a staff account")
	ErrInvalidBillStatus = errors.New("invalid billing status")
)

// AdminService covers the staff-management and billing surface.
type AdminService struct {
	db            *gorm.DB
	notifications *NotificationService
	mailer        mail.Mailer
}

func NewAdminService(db *gorm.DB, notifications *NotificationService, mailer mail.Mailer) *AdminService {
	return &AdminService{db: db, notifications: notifications, mailer: mailer}
}

// CreateStaff provisions a staff account with a generated password and mails
// the credentials to the new staff member.
func (s *AdminService) CreateStaff(req *dto.CreateStaffRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" {
		return nil, errors.New("username and email are required")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Agility:  models.RoleStaff,
		Bills:    models.BillPaid,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&staff).Error; err != nil {
			return fmt.Errorf("failed to create staff: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "Staff account created",
			Message:     fmt.Sprintf("Staff account %s (%s) was created", staff.Username, staff.Email),
			RelatedID:   staff.ID.String(),
			RelatedType: models.RelatedUser,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Hello %s,\n\nYour staff account is ready.\nEmail: %s\nPassword: %s\n\nPlease change the password after your first login.",
		staff.Username, staff.Email, password)
	if err := s.mailer.Send(staff.Email, "Your staff account", body); err != nil {
		// The account exists either way; credential delivery can be retried.
		return &staff, fmt.Errorf("staff created but mail failed: %w", err)
	}
	return &staff, nil
}

// DeleteStaff removes a staff account and its owned rows.
func (s *AdminService) DeleteStaff(id uuid.UUID) error {
	var staff models.User
	if err := s.db.First(&staff, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}
	if staff.Agility != models.RoleStaff {
		return ErrNotStaff
	}
	return s.deleteWithNotice(&staff, "Staff account deleted")
}

// DeleteUser removes any non-super account and its owned rows.
func (s *AdminService) DeleteUser(id uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return ErrUserNotFound
	}
	if user.Agility == models.RoleSuper {
		return errors.New("cannot delete a super admin")
	}
	return s.deleteWithNotice(&user, "Account deleted by admin")
}

func (s *AdminService) deleteWithNotice(user *models.User, title string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserCascade(tx, user); err != nil {
			return err
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       title,
			Message:     fmt.Sprintf("%s (%s) was removed", user.Username, user.Email),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		})
		return err
	})
}

// SetBills updates a user's billing status. Concurrent updates are
// last-write-wins and each one fans out its own notification rows.
func (s *AdminService) SetBills(id uuid.UUID, status models.BillStatus) (*models.User, error) {
	if !status.Valid() {
		return nil, ErrInvalidBillStatus
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, ErrUserNotFound
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("bills", status).Error; err != nil {
			return fmt.Errorf("failed to update billing: %w", err)
		}
		ev := Event{
			Title:       "Billing updated",
			Message:     fmt.Sprintf("Billing of %s set to %q", user.Username, status),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		}
		if _, err := s.notifications.NotifyAdmins(tx, ev); err != nil {
			return err
		}
		return s.notifications.NotifyUser(tx, user.ID, Event{
			Title:       "Billing updated",
			Message:     fmt.Sprintf("Your billing status is now %q", status),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		})
	})
	if err != nil {
		return nil, err
	}
	user.Bills = status
	return &user, nil
}

func generatePassword() (string, error) {
	raw := make([]byte, 9)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
