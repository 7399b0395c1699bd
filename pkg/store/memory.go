package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps diagrams in memory. Contents are lost on restart;
// intended for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*Diagram
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*Diagram)}
}

// Put inserts or replaces a diagram by id.
func (s *MemoryStore) Put(ctx context.Context, d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.diagrams[d.ID] = &cp
	return nil
}

// Get returns a diagram by id, or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.diagrams[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// List returns all diagrams ordered by creation time.
func (s *MemoryStore) List(ctx context.Context) ([]*Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Diagram, 0, len(s.diagrams))
	for _, d := range s.diagrams {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a diagram by id, or returns ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.diagrams[id]; !ok {
		return ErrNotFound
	}
	delete(s.diagrams, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
