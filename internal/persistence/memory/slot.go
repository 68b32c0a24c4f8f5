package memory

import (
	"context"
	"sync"

	"github.com/example/mahalla/internal/persistence"
)

// Slot is an in-process persistence.SessionSlot. Values do not survive a restart.
type Slot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ persistence.SessionSlot = (*Slot)(nil)

// NewSlot returns an empty Slot.
func NewSlot() *Slot {
	return &Slot{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	if err := persistence.ValidateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return cloneBytes(value), nil
}

// Put stores a copy of value under key.
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = cloneBytes(value)
	return nil
}

// Delete removes key.
func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.values, key)
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
