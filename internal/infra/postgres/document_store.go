package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DocumentStore keeps one JSONB row per collection in evalmate_collections.
// The table is created by the bun migrations in ./migrations.
type DocumentStore struct {
	pool *pgxpool.Pool
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// Init seeds any missing collection with its default value.
func (s *DocumentStore) Init(ctx context.Context) error {
	batch := &pgx.Batch{}
	for name, value := range domain.DefaultDocument() {
		batch.Queue(`INSERT INTO evalmate_collections (key, data) VALUES ($1, $2::jsonb) ON CONFLICT (key) DO NOTHING`, name, string(value))
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("init document: %w", err)
		}
	}
	return nil
}

func (s *DocumentStore) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, data FROM evalmate_collections`)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	defer rows.Close()

	doc := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		doc[key] = json.RawMessage(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(doc) == 0 {
		return domain.DefaultDocument(), nil
	}
	return doc, nil
}

func (s *DocumentStore) Get(ctx context.Context, name string) (json.RawMessage, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM evalmate_collections WHERE key=$1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return json.RawMessage(raw), nil
}

func (s *DocumentStore) Put(ctx context.Context, name string, value json.RawMessage) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO evalmate_collections (key, data, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		name, string(value))
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func (s *DocumentStore) Reset(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM evalmate_collections`); err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	for name, value := range domain.DefaultDocument() {
		if _, err := tx.Exec(ctx, `INSERT INTO evalmate_collections (key, data) VALUES ($1, $2::jsonb)`, name, string(value)); err != nil {
			return fmt.Errorf("reset %s: %w", name, err)
		}
	}
	return tx.Commit(ctx)
}
