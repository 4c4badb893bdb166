package services

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/charmcard/charm-backend/internal/config"
	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/mail"
	"github.com/charmcard/charm-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

type AuthService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
	mailer        mail.Mailer
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notifications *NotificationService, mailer mail.Mailer) *AuthService {
	return &AuthService{db: db, cfg: cfg, notifications: notifications, mailer: mailer}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		return nil, errors.New("username and email required; password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Agility:  models.RoleUser,
		Bills:    models.BillUnpaid,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "New registration",
			Message:     fmt.Sprintf("%s (%s) registered an account", user.Username, user.Email),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.authResponse(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(&user)
}

// ForgotPassword issues a single-use OTP and mails it. An unknown email is
// treated as success so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		CodeHash:  hashCode(code),
		ExpiresAt: time.Now().Add(s.cfg.OTPExpiry),
	}
	if err := s.db.Create(&reset).Error; err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	body := fmt.Sprintf("Your charm verification code is %s. It expires in %s.", code, s.cfg.OTPExpiry)
	if err := s.mailer.Send(user.Email, "Password reset code", body); err != nil {
		slog.Error("failed to send reset mail", "error", err, "user_id", user.ID.String())
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(req *dto.ResetPasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return ErrInvalidOTP
	}

	var reset models.PasswordReset
	err := s.db.Where("user_id = ? AND code_hash = ? AND used = ? AND expires_at > ?",
		user.ID, hashCode(req.Code), false, time.Now()).
		Order("created_at DESC").First(&reset).Error
	if err != nil {
		return ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&reset).Update("used", true).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("password", string(hash)).Error
	})
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := s.db.Where("email = ? AND id <> ?", req.Email, userID).First(&existing).Error; err == nil {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}
	if req.Username != "" {
		user.Username = req.Username
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.Model(user).Update("password", string(hash)).Error
}

// SetAvatar stores the new photo path and returns the previous one so the
// handler can remove the orphaned file.
func (s *AuthService) SetAvatar(userID uuid.UUID, path string) (string, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return "", err
	}

	old := user.Photo
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("photo", path).Error; err != nil {
			return err
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "Avatar changed",
			Message:     fmt.Sprintf("%s updated their profile photo", user.Username),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return old, nil
}

// DeleteAccount removes the user and everything they own except scan logs,
// which are retained as historical audit data.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteUserCascade(tx, user); err != nil {
			return err
		}
		_, err := s.notifications.NotifyAdmins(tx, Event{
			Title:       "Account deleted",
			Message:     fmt.Sprintf("%s (%s) deleted their account", user.Username, user.Email),
			RelatedID:   user.ID.String(),
			RelatedType: models.RelatedUser,
		})
		return err
	})
}

// deleteUserCascade removes a user and their owned rows inside the caller's
// transaction. Scan logs are intentionally left behind.
func deleteUserCascade(tx *gorm.DB, user *models.User) error {
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.PasswordReset{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.VCard{}).Error; err != nil {
		return err
	}
	return tx.Delete(user).Error
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"email":   user.Email,
		"agility": string(user.Agility),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return fmt.Sprintf("%x", h)
}
