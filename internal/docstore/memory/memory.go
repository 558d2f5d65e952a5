// Package memory is an in-process document store used for tests and for
// running the dev harness without a DATABASE_URL.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/vivicarm/AppIventario/internal/docstore"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func New() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

func (s *Store) Create(_ context.Context, collection string, id string, doc any) error {
	if id == "" {
		return docstore.ErrInvalidID
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		return docstore.ErrAlreadyExists
	}
	docs[id] = body
	return nil
}

func (s *Store) Get(_ context.Context, collection string, id string, out any) error {
	s.mu.RLock()
	body, exists := s.collections[collection][id]
	s.mu.RUnlock()
	if !exists {
		return docstore.ErrNotFound
	}
	return json.Unmarshal(body, out)
}

func (s *Store) List(_ context.Context, collection string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]json.RawMessage, 0, len(docs))
	for _, id := range ids {
		body := make([]byte, len(docs[id]))
		copy(body, docs[id])
		out = append(out, body)
	}
	return out, nil
}

func (s *Store) Update(_ context.Context, collection string, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, exists := docs[id]; !exists {
		return docstore.ErrNotFound
	}
	docs[id] = body
	return nil
}

func (s *Store) Delete(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, exists := docs[id]; !exists {
		return docstore.ErrNotFound
	}
	delete(docs, id)
	return nil
}
