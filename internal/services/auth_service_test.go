package services

import (
	"testing"
	"time"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*gorm.DB, *AuthService, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewAuthService(db, testConfig(), NewNotificationService(db), mailer)
	return db, svc, mailer
}

func TestRegisterHashesPasswordAndNotifiesAdmins(t *testing.T) {
	db, svc, _ := newAuthService(t)
	admin := createUser(t, db, "root", "root@example.com", "pw12345678", models.RoleSuper, models.BillPaid)

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "Secret1!pw",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}

	var stored models.User
	if err := db.Where("email = ?", "a@x.com").First(&stored).Error; err != nil {
		t.Fatalf("user row missing: %v", err)
	}
	if stored.Password == "Secret1!pw" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Secret1!pw")); err != nil {
		t.Error("stored hash does not verify against the password")
	}
	if stored.Agility != models.RoleUser || stored.Bills != models.BillUnpaid {
		t.Errorf("unexpected defaults: %+v", stored)
	}

	if n := countRows(t, db, &models.Notification{}, "user_id = ?", admin.ID); n != 1 {
		t.Errorf("expected 1 admin notification, got %d", n)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db, svc, _ := newAuthService(t)
	createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillUnpaid)

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "alice2",
		Email:    "a@x.com",
		Password: "Secret1!pw",
	})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if n := countRows(t, db, &models.User{}, "email = ?", "a@x.com"); n != 1 {
		t.Errorf("expected exactly 1 user row, got %d", n)
	}
}

func TestLogin(t *testing.T) {
	_, svc, _ := newAuthService(t)
	if _, err := svc.Register(&dto.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "Secret1!pw"}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "Secret1!pw"}); err != nil {
		t.Errorf("valid login failed: %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "nobody@x.com", Password: "Secret1!pw"}); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	db, svc, mailer := newAuthService(t)

	if err := svc.ForgotPassword("nobody@x.com"); err != nil {
		t.Fatalf("expected silence for unknown email, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("expected no mail, got %d", len(mailer.sent))
	}
	if n := countRows(t, db, &models.PasswordReset{}, ""); n != 0 {
		t.Errorf("expected no reset rows, got %d", n)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	db, svc, mailer := newAuthService(t)
	user := createUser(t, db, "alice", "a@x.com", "OldSecret1!", models.RoleUser, models.BillUnpaid)

	if err := svc.ForgotPassword("a@x.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "a@x.com" {
		t.Fatalf("expected one mail to the user, got %+v", mailer.sent)
	}

	// Swap in a known code; the stored hash is all that matters.
	if err := db.Model(&models.PasswordReset{}).
		Where("user_id = ?", user.ID).
		Update("code_hash", hashCode("123456")).Error; err != nil {
		t.Fatal(err)
	}

	err := svc.ResetPassword(&dto.ResetPasswordRequest{
		Email:       "a@x.com",
		Code:        "999999",
		NewPassword: "NewSecret1!",
	})
	if err != ErrInvalidOTP {
		t.Fatalf("wrong code should fail, got %v", err)
	}

	err = svc.ResetPassword(&dto.ResetPasswordRequest{
		Email:       "a@x.com",
		Code:        "123456",
		NewPassword: "NewSecret1!",
	})
	if err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "NewSecret1!"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}

	// The code is single use.
	err = svc.ResetPassword(&dto.ResetPasswordRequest{
		Email:       "a@x.com",
		Code:        "123456",
		NewPassword: "Another1!pw",
	})
	if err != ErrInvalidOTP {
		t.Errorf("reused code should fail, got %v", err)
	}
}

func TestResetPasswordExpiredCode(t *testing.T) {
	db, svc, _ := newAuthService(t)
	user := createUser(t, db, "alice", "a@x.com", "OldSecret1!", models.RoleUser, models.BillUnpaid)

	reset := models.PasswordReset{
		UserID:    user.ID,
		CodeHash:  hashCode("123456"),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := db.Create(&reset).Error; err != nil {
		t.Fatal(err)
	}

	err := svc.ResetPassword(&dto.ResetPasswordRequest{
		Email:       "a@x.com",
		Code:        "123456",
		NewPassword: "NewSecret1!",
	})
	if err != ErrInvalidOTP {
		t.Fatalf("expired code should fail, got %v", err)
	}
}

func TestDeleteAccountCascadesCardsNotScanLogs(t *testing.T) {
	db, svc, _ := newAuthService(t)
	user := createUser(t, db, "alice", "a@x.com", "Secret1!pw", models.RoleUser, models.BillPaid)

	card := models.VCard{UserID: user.ID, Name: "Alice"}
	if err := db.Create(&card).Error; err != nil {
		t.Fatal(err)
	}
	log := models.ScanLog{CardID: card.ID, UserID: user.ID, IP: "203.0.113.9"}
	if err := db.Create(&log).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteAccount(user.ID, "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password should fail, got %v", err)
	}
	if err := svc.DeleteAccount(user.ID, "Secret1!pw"); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if n := countRows(t, db, &models.VCard{}, "user_id = ?", user.ID); n != 0 {
		t.Errorf("expected 0 orphaned cards, got %d", n)
	}
	if n := countRows(t, db, &models.ScanLog{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("scan logs must survive account deletion, got %d", n)
	}
	if n := countRows(t, db, &models.User{}, "id = ?", user.ID); n != 0 {
		t.Errorf("user row still present")
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	db, svc, _ := newAuthService(t)
	createUser(t, db, "bob", "b@x.com", "pw12345678", models.RoleUser, models.BillUnpaid)
	alice := createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillUnpaid)

	_, err := svc.UpdateProfile(alice.ID, &dto.UpdateProfileRequest{Email: "b@x.com"})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
