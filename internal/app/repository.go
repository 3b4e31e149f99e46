package app

import (
	"context"
	"encoding/json"
)

// DocumentRepository holds the shared evaluation document: one JSON value per
// collection name. It backs the persistence service (memory, file, Redis, Postgres).
type DocumentRepository interface {
	Snapshot(ctx context.Context) (map[string]json.RawMessage, error)
	Get(ctx context.Context, name string) (json.RawMessage, error)
	Put(ctx context.Context, name string, value json.RawMessage) error
	Reset(ctx context.Context) error
}

// RemoteStore is the persistence service as seen by a client. It has the same
// shape as DocumentRepository so a repository can stand in for the HTTP client.
type RemoteStore interface {
	Snapshot(ctx context.Context) (map[string]json.RawMessage, error)
	Get(ctx context.Context, name string) (json.RawMessage, error)
	Put(ctx context.Context, name string, value json.RawMessage) error
	Reset(ctx context.Context) error
}

// ShadowStore is the local durable copy used when the remote is unreachable.
type ShadowStore interface {
	Load(ctx context.Context, name string) (json.RawMessage, bool, error)
	Save(ctx context.Context, name string, value json.RawMessage) error
	Clear(ctx context.Context) error
}
