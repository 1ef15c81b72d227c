package repository

import (
	"context"
	"sync"

	"github.com/okian/formline/internal/domain/model"
)

// MemoryStore keeps the history in process memory. It backs ephemeral mode
// and tests; contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	bets   []model.LinkedBet
	closed bool
}

// NewMemory returns an empty in-memory history store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load(ctx context.Context) ([]model.LinkedBet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make([]model.LinkedBet, len(s.bets))
	copy(out, s.bets)
	return out, nil
}

// Replace swaps the stored history for a copy of the given rows.
func (s *MemoryStore) Replace(ctx context.Context, bets []model.LinkedBet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.bets = make([]model.LinkedBet, len(bets))
	copy(s.bets, bets)
	return nil
}

// Count returns the number of stored bets.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.bets), nil
}

// Close marks the store unusable; later calls fail with ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.bets = nil
	return nil
}
