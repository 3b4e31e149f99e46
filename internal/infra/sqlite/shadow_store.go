package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// KeyPrefix namespaces the client's fallback copies.
const KeyPrefix = "evalmate_"

// ShadowStore is the client's local durable fallback: the last known value of
// every collection, kept in a small SQLite file.
type ShadowStore struct {
	db *sql.DB
}

// Open opens or creates the shadow database at path (":memory:" works too).
func Open(path string) (*ShadowStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open shadow store: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS shadow (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init shadow store: %w", err)
	}
	return &ShadowStore{db: db}, nil
}

func (s *ShadowStore) Close() error {
	return s.db.Close()
}

func (s *ShadowStore) Load(ctx context.Context, name string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM shadow WHERE key = ?`, KeyPrefix+name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}
	if !json.Valid([]byte(value)) {
		return nil, false, nil
	}
	return json.RawMessage(value), true, nil
}

func (s *ShadowStore) Save(ctx context.Context, name string, value json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shadow (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		KeyPrefix+name, string(value))
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *ShadowStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM shadow WHERE key LIKE ?`, KeyPrefix+"%"); err != nil {
		return fmt.Errorf("clear shadow store: %w", err)
	}
	return nil
}
