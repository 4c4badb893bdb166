package services

import (
	"strings"
	"testing"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
	"gorm.io/gorm"
)

func newAdminService(t *testing.T) (*gorm.DB, *AdminService, *fakeMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	return db, NewAdminService(db, NewNotificationService(db), mailer), mailer
}

func TestCreateStaffMailsCredentials(t *testing.T) {
	db, svc, mailer := newAdminService(t)
	createUser(t, db, "root", "root@x.com", "pw12345678", models.RoleSuper, models.BillPaid)

	staff, err := svc.CreateStaff(&dto.CreateStaffRequest{Username: "ops", Email: "ops@x.com"})
	if err != nil {
		t.Fatalf("CreateStaff failed: %v", err)
	}
	if staff.Agility != models.RoleStaff {
		t.Errorf("expected staff role, got %q", staff.Agility)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].to != "ops@x.com" {
		t.Fatalf("expected credential mail to ops@x.com, got %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].body, "Password: ") {
		t.Error("credential mail carries no password")
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	db, svc, _ := newAdminService(t)
	createUser(t, db, "ops", "ops@x.com", "pw12345678", models.RoleStaff, models.BillPaid)

	if _, err := svc.CreateStaff(&dto.CreateStaffRequest{Username: "ops2", Email: "ops@x.com"}); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestDeleteStaffRejectsNonStaff(t *testing.T) {
	db, svc, _ := newAdminService(t)
	user := createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillPaid)

	if err := svc.DeleteStaff(user.ID); err != ErrNotStaff {
		t.Fatalf("expected ErrNotStaff, got %v", err)
	}
}

func TestDeleteUserCascadesCards(t *testing.T) {
	db, svc, _ := newAdminService(t)
	user := createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillPaid)
	card := models.VCard{UserID: user.ID, Name: "Alice"}
	if err := db.Create(&card).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteUser(user.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if n := countRows(t, db, &models.VCard{}, "user_id = ?", user.ID); n != 0 {
		t.Errorf("expected 0 orphaned cards, got %d", n)
	}
}

func TestDeleteUserRefusesSuper(t *testing.T) {
	db, svc, _ := newAdminService(t)
	root := createUser(t, db, "root", "root@x.com", "pw12345678", models.RoleSuper, models.BillPaid)

	if err := svc.DeleteUser(root.ID); err == nil {
		t.Fatal("deleting a super admin must fail")
	}
}

func TestSetBillsLastWriteWinsWithOwnFanOut(t *testing.T) {
	db, svc, _ := newAdminService(t)
	admin := createUser(t, db, "root", "root@x.com", "pw12345678", models.RoleSuper, models.BillPaid)
	user := createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillUnpaid)

	if _, err := svc.SetBills(user.ID, models.BillPaid); err != nil {
		t.Fatalf("SetBills failed: %v", err)
	}
	if _, err := svc.SetBills(user.ID, models.BillSuspended); err != nil {
		t.Fatalf("SetBills failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.Bills != models.BillSuspended {
		t.Errorf("expected last write to win, got %q", stored.Bills)
	}

	// Each update fans out its own rows: 2 for the admin, 2 for the user.
	if n := countRows(t, db, &models.Notification{}, "user_id = ?", admin.ID); n != 2 {
		t.Errorf("expected 2 admin notifications, got %d", n)
	}
	if n := countRows(t, db, &models.Notification{}, "user_id = ?", user.ID); n != 2 {
		t.Errorf("expected 2 user notifications, got %d", n)
	}
}

func TestSetBillsRejectsUnknownStatus(t *testing.T) {
	db, svc, _ := newAdminService(t)
	user := createUser(t, db, "alice", "a@x.com", "pw12345678", models.RoleUser, models.BillUnpaid)

	if _, err := svc.SetBills(user.ID, models.BillStatus("comped")); err != ErrInvalidBillStatus {
		t.Fatalf("expected ErrInvalidBillStatus, got %v", err)
	}
}
