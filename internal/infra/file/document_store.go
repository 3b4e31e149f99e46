package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/24K-GA/AI-Course-EvalMate/internal/domain"
	"github.com/rs/zerolog/log"
)

// FileName is the document file inside the data directory.
const FileName = "data.json"

// DocumentStore persists the whole document as one indented JSON file. Every
// operation re-reads the file so edits made outside the service are picked up.
type DocumentStore struct {
	path string
	mu   sync.Mutex
}

// NewDocumentStore opens (and if needed initializes) dir/data.json.
func NewDocumentStore(dir string) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &DocumentStore{path: filepath.Join(dir, FileName)}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.write(domain.DefaultDocument()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the document file location.
func (s *DocumentStore) Path() string {
	return s.path
}

func (s *DocumentStore) Snapshot(_ context.Context) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(), nil
}

func (s *DocumentStore) Get(_ context.Context, name string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.read()[name]
	if !ok {
		return nil, domain.ErrCollectionNotFound
	}
	return v, nil
}

func (s *DocumentStore) Put(_ context.Context, name string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.read()
	doc[name] = value
	return s.write(doc)
}

func (s *DocumentStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(domain.DefaultDocument())
}

// read falls back to the default document when the file is missing or corrupt.
func (s *DocumentStore) read() map[string]json.RawMessage {
	data, err := os.ReadFile(s.path)
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("load data failed")
		return domain.DefaultDocument()
	}
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("parse data failed")
		return domain.DefaultDocument()
	}
	return doc
}

func (s *DocumentStore) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data: %w", err)
	}
	return nil
}
