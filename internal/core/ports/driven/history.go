package driven

import (
	"context"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

// HistoryStore records completed sync cycles for `margin history`.
// Optional: a nil store disables the journal without affecting sync.
type HistoryStore interface {
	// Record persists one finished run.
	Record(ctx context.Context, run domain.SyncRun) error

	// List returns the most recent runs, newest first, at most limit.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Close releases the underlying storage.
	Close() error
}
