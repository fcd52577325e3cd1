package store

import (
	"context"
	"sync"
	"time"

	"github.com/darmiel/sitegate/internal/core"
)

var _ core.PassStore = (*InMemoryPassStore)(nil)

// InMemoryPassStore tracks issued gate passes for the lifetime of the
// process. Durable pass storage is deliberately out of scope.
type InMemoryPassStore struct {
	mu     sync.RWMutex
	passes []core.PassMetadata
}

func NewInMemoryPassStore() *InMemoryPassStore {
	return &InMemoryPassStore{
		passes: make([]core.PassMetadata, 0),
	}
}

func (s *InMemoryPassStore) Save(_ context.Context, meta core.PassMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passes = append(s.passes, meta)
	return nil
}

func (s *InMemoryPassStore) ListActive(_ context.Context) ([]core.PassMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]core.PassMetadata, 0)
	now := time.Now()

	for _, p := range s.passes {
		if p.ExpiresAt.After(now) {
			active = append(active, p)
		}
	}

	return active, nil
}

func (s *InMemoryPassStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var active []core.PassMetadata
	var deleted int64

	for _, p := range s.passes {
		if p.ExpiresAt.After(now) {
			active = append(active, p)
		} else {
			deleted++
		}
	}

	s.passes = active
	return deleted, nil
}
