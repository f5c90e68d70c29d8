// Package memory provides an in-memory ports.RunStore, suitable for tests
// and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/railyard/shunt/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.RunRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory run store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunRecord),
	}
}

// Save persists the record in memory. The record is copied so the caller
// cannot mutate stored state afterwards.
func (s *Store) Save(ctx context.Context, record *domain.RunRecord) error {
	clone := record.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[clone.RunID] = clone
	return nil
}

// Load retrieves a copy of the record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return record.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns the IDs of stored runs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
