package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the hash holding the evaluation document.
const DefaultKey = "evalmate:document"

// DocumentStore keeps the document in a single Redis hash, one field per collection:
//
//	HSET evalmate:document {collection} {json}
type DocumentStore struct {
	client *redis.Client
	key    string
}

func NewDocumentStore(client *redis.Client, key string) *DocumentStore {
	if key == "" {
		key = DefaultKey
	}
	return &DocumentStore{client: client, key: key}
}

// Init seeds any missing collection with its default value.
func (s *DocumentStore) Init(ctx context.Context) error {
	pipe := s.client.Pipeline()
	for name, value := range domain.DefaultDocument() {
		pipe.HSetNX(ctx, s.key, name, []byte(value))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("init document: %w", err)
	}
	return nil
}

func (s *DocumentStore) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if len(fields) == 0 {
		return domain.DefaultDocument(), nil
	}
	doc := make(map[string]json.RawMessage, len(fields))
	for name, value := range fields {
		doc[name] = json.RawMessage(value)
	}
	return doc, nil
}

func (s *DocumentStore) Get(ctx context.Context, name string) (json.RawMessage, error) {
	value, err := s.client.HGet(ctx, s.key, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return json.RawMessage(value), nil
}

func (s *DocumentStore) Put(ctx context.Context, name string, value json.RawMessage) error {
	if err := s.client.HSet(ctx, s.key, name, []byte(value)).Err(); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

func (s *DocumentStore) Reset(ctx context.Context) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	for name, value := range domain.DefaultDocument() {
		pipe.HSet(ctx, s.key, name, []byte(value))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	return nil
}
