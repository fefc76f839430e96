package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ix-ath/shelf-sense/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists key/value records in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("missing sqlite path")
	}
	if p != ":memory:" {
		p = filepath.Clean(p)
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}

	// Single-process local DB; one connection also keeps ":memory:" coherent.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv_records (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);
`)
	return err
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get retrieves the value stored under key
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_records WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sqlite get %q: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set replaces the value stored under key in a single statement
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv_records(key, value, updated_at_unix_ms)
VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at_unix_ms = excluded.updated_at_unix_ms
`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite delete %q: %w", key, err)
	}
	return nil
}
