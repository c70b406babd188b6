package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// StateDBPath returns a state store path inside a fresh temp dir.
func StateDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.db")
}

// CreateStateFixture creates a local state store fixture with a signed-in
// identity.
func CreateStateFixture(t *testing.T, dbPath, email string) {
	t.Helper()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS clientKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	if _, err := db.Exec("INSERT INTO clientKV (key, value) VALUES (?, ?)", "chatbot_user_email", email); err != nil {
		t.Fatalf("Failed to insert email: %v", err)
	}
}
