package database

import (
	"path/filepath"
	"testing"
)

func newMigratedDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestMigrationsCreateSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	tables := []string{
		"accounts", "sessions", "profiles", "messages",
		"room_previews", "swipes", "matches", "widgets", "legacy_widgets",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migrations: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	// Running again must be a no-op
	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("failed to count migrations: %v", err)
	}
	if count == 0 {
		t.Error("no migrations were recorded")
	}
}

func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	first, err := db.ExecReturningID(
		"INSERT INTO legacy_widgets (label, position) VALUES (?, ?)", "one", 0,
	)
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	second, err := db.ExecReturningID(
		"INSERT INTO legacy_widgets (label, position) VALUES (?, ?)", "two", 1,
	)
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if second <= first {
		t.Errorf("IDs not increasing: first = %d, second = %d", first, second)
	}
}

func TestTransactionRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO legacy_widgets (label, position) VALUES (?, ?)", "doomed", 0,
	); err != nil {
		t.Fatalf("Exec() in transaction error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM legacy_widgets").Scan(&count); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled back insert is visible, count = %d", count)
	}
}

func TestTransactionCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := tx.ExecReturningID(
		"INSERT INTO legacy_widgets (label, position) VALUES (?, ?)", "kept", 0,
	); err != nil {
		t.Fatalf("ExecReturningID() in transaction error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	var label string
	if err := db.QueryRow("SELECT label FROM legacy_widgets WHERE position = ?", 0).Scan(&label); err != nil {
		t.Fatalf("failed to read committed row: %v", err)
	}
	if label != "kept" {
		t.Errorf("label = %q, want kept", label)
	}
}
