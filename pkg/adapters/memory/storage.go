// Package memory implements an in-process core.Storage for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/dreamlog/pkg/core"
)

// Storage keeps values in a map. It is safe for concurrent use.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailWrites, when set, is returned from Set and Remove.
	FailWrites error
}

// NewStorage creates an empty storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

func (s *Storage) Initialize(ctx context.Context) error { return nil }

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	delete(s.values, key)
	return nil
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory"
}

var _ core.Storage = (*Storage)(nil)
