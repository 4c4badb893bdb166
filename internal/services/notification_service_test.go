package services

import (
	"testing"

	"github.com/charmcard/charm-backend/internal/models"
	"github.com/google/uuid"
)

func TestNotifyAdminsOneRowPerAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	createUser(t, db, "root", "root@example.com", "pw12345678", models.RoleSuper, models.BillPaid)
	createUser(t, db, "ops", "ops@example.com", "pw12345678", models.RoleStaff, models.BillPaid)
	createUser(t, db, "bob", "bob@example.com", "pw12345678", models.RoleUser, models.BillUnpaid)

	n, err := svc.NotifyAdmins(db, Event{Title: "t", Message: "m", RelatedType: models.RelatedUser})
	if err != nil {
		t.Fatalf("NotifyAdmins failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows written, got %d", n)
	}
	if total := countRows(t, db, &models.Notification{}, ""); total != 2 {
		t.Errorf("expected 2 notification rows, got %d", total)
	}
	// Regular users must not be fanned out to.
	var bob models.User
	if err := db.Where("email = ?", "bob@example.com").First(&bob).Error; err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, db, &models.Notification{}, "user_id = ?", bob.ID); n != 0 {
		t.Errorf("regular user received %d notifications", n)
	}
}

func TestNotifyAdminsWithZeroAdmins(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	n, err := svc.NotifyAdmins(db, Event{Title: "t", Message: "m"})
	if err != nil {
		t.Fatalf("NotifyAdmins failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected silent no-op, got %d rows", n)
	}
}

func TestMarkReadFlipsOnlyThatRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := createUser(t, db, "alice", "alice@example.com", "pw12345678", models.RoleUser, models.BillPaid)

	for i := 0; i < 3; i++ {
		if err := svc.NotifyUser(db, user.ID, Event{Title: "t", Message: "m"}); err != nil {
			t.Fatal(err)
		}
	}

	var first models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&first).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkRead(user.ID, first.ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	if n := countRows(t, db, &models.Notification{}, "user_id = ? AND is_read = ?", user.ID, true); n != 1 {
		t.Errorf("expected exactly 1 read row, got %d", n)
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	alice := createUser(t, db, "alice", "alice@example.com", "pw12345678", models.RoleUser, models.BillPaid)
	mallory := createUser(t, db, "mallory", "mallory@example.com", "pw12345678", models.RoleUser, models.BillPaid)

	if err := svc.NotifyUser(db, alice.ID, Event{Title: "t", Message: "m"}); err != nil {
		t.Fatal(err)
	}
	var row models.Notification
	if err := db.Where("user_id = ?", alice.ID).First(&row).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkRead(mallory.ID, row.ID); err != ErrNotificationNotFound {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
}

func TestMarkAllReadScopedToRequester(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	alice := createUser(t, db, "alice", "alice@example.com", "pw12345678", models.RoleUser, models.BillPaid)
	bob := createUser(t, db, "bob", "bob@example.com", "pw12345678", models.RoleUser, models.BillPaid)

	for _, id := range []uuid.UUID{alice.ID, bob.ID} {
		for i := 0; i < 2; i++ {
			if err := svc.NotifyUser(db, id, Event{Title: "t", Message: "m"}); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := svc.MarkAllRead(alice.ID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	if n := countRows(t, db, &models.Notification{}, "user_id = ? AND is_read = ?", alice.ID, false); n != 0 {
		t.Errorf("alice still has %d unread", n)
	}
	if n := countRows(t, db, &models.Notification{}, "user_id = ? AND is_read = ?", bob.ID, false); n != 2 {
		t.Errorf("bob's rows were touched: %d unread left", n)
	}
}

func TestDeleteAllScopedToRequester(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	alice := createUser(t, db, "alice", "alice@example.com", "pw12345678", models.RoleUser, models.BillPaid)
	bob := createUser(t, db, "bob", "bob@example.com", "pw12345678", models.RoleUser, models.BillPaid)

	if err := svc.NotifyUser(db, alice.ID, Event{Title: "t", Message: "m"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.NotifyUser(db, bob.ID, Event{Title: "t", Message: "m"}); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteAll(alice.ID); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if n := countRows(t, db, &models.Notification{}, ""); n != 1 {
		t.Errorf("expected bob's row to survive, got %d rows total", n)
	}
}

func TestUnreadCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := createUser(t, db, "alice", "alice@example.com", "pw12345678", models.RoleUser, models.BillPaid)

	for i := 0; i < 3; i++ {
		if err := svc.NotifyUser(db, user.ID, Event{Title: "t", Message: "m"}); err != nil {
			t.Fatal(err)
		}
	}
	var row models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&row).Error; err != nil {
		t.Fatal(err)
	}
	if err := svc.MarkRead(user.ID, row.ID); err != nil {
		t.Fatal(err)
	}

	n, err := svc.UnreadCount(user.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 unread, got %d", n)
	}
}
