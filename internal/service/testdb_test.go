package service

import (
	"path/filepath"
	"testing"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
)

// newTestDB opens a throwaway sqlite store with the full schema applied.
// Callers should guard with testing.Short().
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}
