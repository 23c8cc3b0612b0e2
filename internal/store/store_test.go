package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user and returns its ID.
func createTestUser(t *testing.T, db *sql.DB, email string) string {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), email, "Test", "password123")
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u.ID
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
