package memory

import (
	"context"
	"sync"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore for
// testing.
type HistoryStore struct {
	mu   sync.RWMutex
	runs []domain.SyncRun
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record persists one finished run.
func (s *HistoryStore) Record(_ context.Context, run domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// List returns the most recent runs, newest first.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SyncRun, 0, limit)
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// Close releases the underlying storage (no-op for memory store).
func (s *HistoryStore) Close() error {
	return nil
}
