package store

import (
	"database/sql"
	"fmt"

	"example/sweetshop-client/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Storage keys for the persisted credential pair. Both are always written
// and cleared together.
const (
	keyToken   = "token"
	keySession = "user"
)

// Store persists the bearer token and the serialized session in a local
// SQLite database so a login survives client restarts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the client state database at the given path.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	logger.Log.Debugw("Opening client state database", "path", path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		logger.Log.Errorw("Failed to open state database", "path", path, "error", err)
		return nil, fmt.Errorf("open state db: %v", err)
	}

	if err := db.Ping(); err != nil {
		logger.Log.Errorw("Failed to ping state database", "path", path, "error", err)
		return nil, fmt.Errorf("ping state db: %v", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS client_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		logger.Log.Errorw("Failed to create state schema", "error", err)
		return nil, fmt.Errorf("create state schema: %v", err)
	}

	logger.Log.Debugw("Client state database ready", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		if err != nil {
			logger.Log.Errorw("Error closing state database", "error", err)
		}
		return err
	}
	return nil
}

// SaveCredentials writes the token and serialized session in one transaction
func (s *Store) SaveCredentials(token, session string) error {
	tx, err := s.db.Begin()
	if err != nil {
		logger.Log.Errorw("Failed to begin credential transaction", "error", err)
		return fmt.Errorf("saveCredentials begin tx: %v", err)
	}

	upsert := "INSERT INTO client_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value"
	if _, err := tx.Exec(upsert, keyToken, token); err != nil {
		tx.Rollback()
		logger.Log.Errorw("Failed to store token", "error", err)
		return fmt.Errorf("saveCredentials: token: %v", err)
	}
	if _, err := tx.Exec(upsert, keySession, session); err != nil {
		tx.Rollback()
		logger.Log.Errorw("Failed to store session", "error", err)
		return fmt.Errorf("saveCredentials: session: %v", err)
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("Failed to commit credentials", "error", err)
		return fmt.Errorf("saveCredentials commit: %v", err)
	}

	logger.Log.Debugw("Credentials persisted")
	return nil
}

// Token returns the persisted bearer token, or "" when logged out
func (s *Store) Token() (string, error) {
	return s.value(keyToken)
}

// Session returns the persisted serialized session, or "" when logged out
func (s *Store) Session() (string, error) {
	return s.value(keySession)
}

func (s *Store) value(key string) (string, error) {
	var value string
	row := s.db.QueryRow("SELECT value FROM client_state WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		logger.Log.Errorw("Failed to read state value", "key", key, "error", err)
		return "", fmt.Errorf("state value %q: %v", key, err)
	}
	return value, nil
}

// Clear removes the token and session together
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM client_state WHERE key IN (?, ?)", keyToken, keySession); err != nil {
		logger.Log.Errorw("Failed to clear credentials", "error", err)
		return fmt.Errorf("clear credentials: %v", err)
	}
	logger.Log.Debugw("Credentials cleared")
	return nil
}
