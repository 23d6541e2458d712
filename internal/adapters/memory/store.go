// Package memory provides an in-process StepStore, the default backend for
// the replay surface when no Redis is configured.
package memory

import (
	"context"
	"sync"

	"github.com/keyloom/keyloom/pkg/domain"
)

// Store implements ports.StepStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Recording
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Recording),
	}
}

// Save persists the recording in memory.
func (s *Store) Save(ctx context.Context, sessionID string, rec *domain.Recording) error {
	copied := *rec
	copied.Steps = domain.CloneSteps(rec.Steps)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = &copied
	return nil
}

// Load retrieves the recording from memory.
// Returns a copy so the caller cannot mutate stored data through the pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	ret := *rec
	ret.Steps = domain.CloneSteps(rec.Steps)
	return &ret, nil
}

// Delete removes the recording.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
