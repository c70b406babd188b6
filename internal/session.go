package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "modernc.org/sqlite"
)

// Session is the signed-in identity plus the active conversation id. Only
// the email survives restarts; the conversation selection is per run.
type Session struct {
	Email          string
	ConversationID string
}

// SignedIn reports whether an identity is present.
func (s Session) SignedIn() bool {
	return s.Email != ""
}

// emailKey is the well-known key the identity persists under.
const emailKey = "chatbot_user_email"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the string looks like an email address. The
// check is intentionally shallow; the service treats the address as an
// opaque identity string.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// StateStore is a small sqlite-backed key/value store holding client-local
// state, primarily the signed-in email.
type StateStore struct {
	path string
	db   *sql.DB
}

// OpenStateStore opens (creating if needed) the local state store.
func OpenStateStore(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS clientKV (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		db.Close()
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}

	return &StateStore{path: path, db: db}, nil
}

// Close closes the underlying database.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Get returns the value under key, or empty string when absent.
func (s *StateStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM clientKV WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", &StoreError{Path: s.path, Op: "read", Err: err}
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *StateStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO clientKV (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return &StoreError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *StateStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM clientKV WHERE key = ?`, key); err != nil {
		return &StoreError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// LoadSession resumes the session persisted by a previous run. An absent
// email key means the session starts signed out.
func LoadSession(store *StateStore) (Session, error) {
	email, err := store.Get(emailKey)
	if err != nil {
		return Session{}, err
	}
	return Session{Email: email}, nil
}

// SaveSession persists the identity for auto-resume on restart.
func SaveSession(store *StateStore, session Session) error {
	if !ValidEmail(session.Email) {
		return fmt.Errorf("invalid email address: %q", session.Email)
	}
	return store.Set(emailKey, session.Email)
}

// ClearSession signs the user out by removing the persisted identity.
func ClearSession(store *StateStore) error {
	return store.Delete(emailKey)
}
