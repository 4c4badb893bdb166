package services

import (
	"testing"

	"github.com/charmcard/charm-backend/internal/dto"
	"github.com/charmcard/charm-backend/internal/models"
)

func TestSubmitComplaintNotifiesAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, NewNotificationService(db))
	admin := createUser(t, db, "root", "root@x.com", "pw12345678", models.RoleSuper, models.BillPaid)

	row, err := svc.SubmitComplaint(&dto.ComplaintRequest{
		Name:        "carol",
		Email:       "c@x.com",
		Title:       "Broken QR",
		Description: "The QR on my card 404s",
	})
	if err != nil {
		t.Fatalf("SubmitComplaint failed: %v", err)
	}
	if row.ID.String() == "" {
		t.Error("complaint has no id")
	}

	if n := countRows(t, db, &models.Notification{}, "user_id = ?", admin.ID); n != 1 {
		t.Errorf("expected 1 admin notification, got %d", n)
	}
}

func TestSubmitComplaintValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, NewNotificationService(db))

	if _, err := svc.SubmitComplaint(&dto.ComplaintRequest{Name: "carol"}); err == nil {
		t.Fatal("missing fields must fail")
	}
	if n := countRows(t, db, &models.Complaint{}, ""); n != 0 {
		t.Errorf("expected no complaint rows, got %d", n)
	}
}

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, NewNotificationService(db))

	if _, err := svc.SubmitFeedback(&dto.FeedbackRequest{Name: "carol", Email: "c@x.com", Message: "nice app"}); err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	rows, err := svc.ListFeedback()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Message != "nice app" {
		t.Errorf("feedback not listed: %+v", rows)
	}
}
