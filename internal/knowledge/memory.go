package knowledge

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. Insertion order is
// preserved so ties in ranking stay stable.
type MemoryStore struct {
	identifier string

	mu    sync.RWMutex
	docs  map[string]StoredDocument
	order []string
}

func NewMemoryStore(identifier string) *MemoryStore {
	return &MemoryStore{
		identifier: identifier,
		docs:       make(map[string]StoredDocument),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, doc StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, doc StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		return ErrNotFound
	}
	s.docs[doc.ID] = doc
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; !exists {
		return nil // delete is a no-op on absent ids
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (StoredDocument, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredDocument, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *MemoryStore) Identifier() string {
	return s.identifier
}
