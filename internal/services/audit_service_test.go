package services

import (
	"strings"
	"testing"

	"flesk/internal/models"
	"flesk/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, models.CategoryFood)

		svc.Log(user.ID, AuditActionDeleteBudget, "budget", budget.ID, "127.0.0.1",
			map[string]any{"category": "food"})

		var entries []models.AuditLog
		db.Where("user_id = ?", user.ID).Find(&entries)
		if len(entries) != 1 {
			t.Fatalf("expected 1 audit entry, got %d", len(entries))
		}
		if entries[0].ResourceID != budget.ID {
			t.Errorf("expected resource id %s, got %s", budget.ID, entries[0].ResourceID)
		}
		if !strings.Contains(entries[0].Changes, `"category":"food"`) {
			t.Errorf("expected changes to be recorded, got %s", entries[0].Changes)
		}
	})

	t.Run("no_resource", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAuditService(db)
		user := testutil.CreateTestUser(t, db)

		svc.Log(user.ID, AuditActionLogin, "user", "", "", nil)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
		if entry.Changes != "" {
			t.Errorf("expected no changes, got %s", entry.Changes)
		}
		if entry.CreatedAt.IsZero() || entry.ID[14] != '7' {
			t.Errorf("expected stamped UUIDv7 entry, got id=%s created_at=%v", entry.ID, entry.CreatedAt)
		}
	})
}
