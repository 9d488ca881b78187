package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(id string, started time.Time) domain.SyncRun {
	return domain.SyncRun{
		ID:          id,
		Trigger:     domain.TriggerManual,
		StartedAt:   started,
		FinishedAt:  started.Add(3 * time.Second),
		SourcesSeen: 4,
		QuotesAdded: 9,
		TagsLinked:  2,
	}
}

func TestHistoryStore_RecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, sampleRun("run-1", base)))
	require.NoError(t, store.Record(ctx, sampleRun("run-2", base.Add(time.Hour))))

	runs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, 9, runs[0].QuotesAdded)
	assert.Equal(t, domain.TriggerManual, runs[0].Trigger)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(time.Hour)))
}

func TestHistoryStore_ListLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := sampleRun("", base.Add(time.Duration(i)*time.Minute))
		run.ID = string(rune('a' + i))
		require.NoError(t, store.Record(ctx, run))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, "e", runs[0].ID)
}

func TestHistoryStore_RecordsFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("run-err", time.Now().UTC())
	run.Trigger = domain.TriggerAuto
	run.Err = "fetch sources: unauthorized"
	require.NoError(t, store.Record(ctx, run))

	runs, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.TriggerAuto, runs[0].Trigger)
	assert.Equal(t, "fetch sources: unauthorized", runs[0].Err)
}

func TestHistoryStore_RejectsEmptyID(t *testing.T) {
	store := newTestStore(t)
	err := store.Record(context.Background(), domain.SyncRun{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryStore_MigrationIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewHistoryStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), sampleRun("run-1", time.Now().UTC())))
	require.NoError(t, store.Close())

	// Reopening runs migrate again without error and keeps the data.
	reopened, err := NewHistoryStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
