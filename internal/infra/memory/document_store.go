package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
)

// DocumentStore is an in-memory implementation of app.DocumentRepository.
// It also satisfies app.RemoteStore, which makes it a convenient in-process remote.
type DocumentStore struct {
	mu  sync.RWMutex
	doc map[string]json.RawMessage
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{doc: domain.DefaultDocument()}
}

func (s *DocumentStore) Snapshot(_ context.Context) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage, len(s.doc))
	for k, v := range s.doc {
		out[k] = cloneRaw(v)
	}
	return out, nil
}

func (s *DocumentStore) Get(_ context.Context, name string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc[name]
	if !ok {
		return nil, domain.ErrCollectionNotFound
	}
	return cloneRaw(v), nil
}

func (s *DocumentStore) Put(_ context.Context, name string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc[name] = cloneRaw(value)
	return nil
}

func (s *DocumentStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = domain.DefaultDocument()
	return nil
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
