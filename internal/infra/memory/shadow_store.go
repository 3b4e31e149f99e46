package memory

import (
	"context"
	"encoding/json"
	"sync"
)

// ShadowStore keeps the client's fallback copies in memory (tests, ephemeral runs).
type ShadowStore struct {
	mu    sync.RWMutex
	items map[string]json.RawMessage
}

func NewShadowStore() *ShadowStore {
	return &ShadowStore{items: make(map[string]json.RawMessage)}
}

func (s *ShadowStore) Load(_ context.Context, name string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[name]
	return cloneRaw(v), ok, nil
}

func (s *ShadowStore) Save(_ context.Context, name string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = cloneRaw(value)
	return nil
}

func (s *ShadowStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]json.RawMessage)
	return nil
}
