package services

import (
	"testing"

	"budgetwise/internal/models"
	"budgetwise/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(user.ID, "CREATE_BUDGET", "budget", "0190a7a4-7e2b-7c1f-9a6e-2f3b4c5d6e7f", "127.0.0.1", map[string]any{"amount": "500.00"})
	svc.Log(user.ID, "DELETE_TRANSACTION", "transaction", "0190a7a4-7e2b-7c1f-9a6e-2f3b4c5d6e80", "127.0.0.1", nil)

	var entries []models.AuditLog
	testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Order("action").Find(&entries).Error)

	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].Action != "CREATE_BUDGET" || entries[0].Changes != `{"amount":"500.00"}` {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
	if entries[1].Changes != "" {
		t.Errorf("expected no changes recorded, got %q", entries[1].Changes)
	}
}
