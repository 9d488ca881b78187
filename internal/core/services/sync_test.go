package services

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/adapters/driven/storage/memory"
	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
)

// mockHighlightsAPI implements driven.HighlightsAPI for testing.
type mockHighlightsAPI struct {
	sources    []domain.Source
	sourcesErr error
	tags       []domain.Tag
	tagsErr    error
	reflection *domain.DailyReflection
	reflErr    error

	// block, when non-nil, is closed by the test to release FetchSources.
	block chan struct{}
}

func (m *mockHighlightsAPI) Connect(context.Context) (string, error) { return "secret", nil }

func (m *mockHighlightsAPI) FetchSources(ctx context.Context) ([]domain.Source, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.sources, m.sourcesErr
}

func (m *mockHighlightsAPI) FetchTags(context.Context) ([]domain.Tag, error) {
	return m.tags, m.tagsErr
}

func (m *mockHighlightsAPI) FetchDailyReflection(context.Context) (*domain.DailyReflection, error) {
	return m.reflection, m.reflErr
}

func newTestSync(api *mockHighlightsAPI, vault *memory.Vault, history *memory.HistoryStore) (*SyncService, *SettingsService) {
	store := memory.NewConfigStore()
	_ = store.Set("vault.root_folder", "Margin")
	_ = store.Set("daily.folder", "Journal")
	settings := NewSettingsService(store)

	var h driven.HistoryStore
	if history != nil {
		h = history
	}
	svc := NewSyncService(api, settings, vault, h)
	svc.now = func() time.Time { return time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC) }
	svc.refl.now = svc.now
	return svc, settings
}

func TestSyncService_RunCycle(t *testing.T) {
	vault := memory.NewVault()
	vault.Put("Journal/2026-08-23.md", "journal\n")

	api := &mockHighlightsAPI{
		sources: []domain.Source{bookSource(quote("q1", "Alpha"))},
		tags:    []domain.Tag{{ID: "tag-1", Title: "Growth", SourceIDs: []string{"src-1"}}},
		reflection: &domain.DailyReflection{
			SourceID: "src-1", SourceTitle: "Deep Work", SourceType: "Book",
			Quote: "Alpha",
		},
	}
	history := memory.NewHistoryStore()
	svc, _ := newTestSync(api, vault, history)

	summary, err := svc.RunCycle(context.Background(), domain.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SourcesSeen)
	assert.Equal(t, 1, summary.QuotesAdded)
	assert.Equal(t, 1, summary.TagsLinked)
	assert.True(t, summary.ReflectionAdded)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.False(t, summary.Skipped)

	// The tag links to the file merged in the same cycle.
	assert.Contains(t, vault.Files()["Margin/Tags/growth.md"], "- [[deep-work]]")

	runs, err := history.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.TriggerManual, runs[0].Trigger)
	assert.Equal(t, 1, runs[0].QuotesAdded)
	assert.NotEmpty(t, runs[0].ID)
	assert.Empty(t, runs[0].Err)
}

func TestSyncService_ConcurrentCycleRejected(t *testing.T) {
	vault := memory.NewVault()
	api := &mockHighlightsAPI{block: make(chan struct{})}
	svc, _ := newTestSync(api, vault, nil)

	var wg stdsync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.RunCycle(context.Background(), domain.TriggerManual)
	}()

	// Wait until the first cycle holds the lock and reports progress.
	require.Eventually(t, func() bool {
		return svc.Status().Running
	}, time.Second, 5*time.Millisecond)

	_, err := svc.RunCycle(context.Background(), domain.TriggerManual)
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	close(api.block)
	wg.Wait()
}

func TestSyncService_AutoGatedOncePerDay(t *testing.T) {
	vault := memory.NewVault()
	vault.Put("Journal/2026-08-23.md", "journal\n")
	api := &mockHighlightsAPI{
		sources: []domain.Source{bookSource(quote("q1", "Alpha"))},
	}
	svc, settings := newTestSync(api, vault, nil)
	require.NoError(t, settings.Save(func() *domain.SyncSettings {
		s := domain.DefaultSyncSettings()
		s.RootFolder = "Margin"
		s.DailyNotesFolder = "Journal"
		s.AutoSync = true
		return &s
	}()))

	summary, err := svc.RunCycle(context.Background(), domain.TriggerAuto)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
	assert.Equal(t, 1, summary.QuotesAdded)

	// The gate marker is set; a second auto cycle the same day skips.
	summary, err = svc.RunCycle(context.Background(), domain.TriggerAuto)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)

	// Manual cycles ignore the gate.
	summary, err = svc.RunCycle(context.Background(), domain.TriggerManual)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
}

func TestSyncService_AutoDisabledSkips(t *testing.T) {
	vault := memory.NewVault()
	api := &mockHighlightsAPI{}
	svc, _ := newTestSync(api, vault, nil)

	summary, err := svc.RunCycle(context.Background(), domain.TriggerWatch)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)
}

func TestSyncService_MissingDailyNoteDegrades(t *testing.T) {
	vault := memory.NewVault()
	api := &mockHighlightsAPI{
		sources: []domain.Source{bookSource(quote("q1", "Alpha"))},
		reflection: &domain.DailyReflection{
			SourceID: "src-1", SourceTitle: "Deep Work", Quote: "Alpha",
		},
	}
	svc, _ := newTestSync(api, vault, nil)

	summary, err := svc.RunCycle(context.Background(), domain.TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.QuotesAdded)
	assert.False(t, summary.ReflectionAdded)
	assert.Equal(t, 1, summary.ErrorCount)
}

func TestSyncService_FetchFailureRecorded(t *testing.T) {
	vault := memory.NewVault()
	api := &mockHighlightsAPI{sourcesErr: domain.ErrUnauthorized}
	history := memory.NewHistoryStore()
	svc, _ := newTestSync(api, vault, history)

	_, err := svc.RunCycle(context.Background(), domain.TriggerManual)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	runs, err := history.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.NotEmpty(t, runs[0].Err)
}

func TestSyncService_SyncSourcesOnly(t *testing.T) {
	vault := memory.NewVault()
	api := &mockHighlightsAPI{
		sources: []domain.Source{bookSource(quote("q1", "Alpha"))},
		tags:    []domain.Tag{{ID: "tag-1", Title: "Growth"}},
	}
	svc, _ := newTestSync(api, vault, nil)

	summary, err := svc.SyncSources(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.QuotesAdded)
	assert.Equal(t, 0, summary.TagsLinked)
	assert.NotContains(t, vault.Files(), "Margin/Tags/growth.md")
}

func TestSyncService_LinkTagsStandalone(t *testing.T) {
	vault := memory.NewVault()
	// A prior sync left this source file; the standalone linker finds it
	// by content scan.
	vault.Put("Margin/Books/deep-work.md", "header src-1\n")

	api := &mockHighlightsAPI{
		tags: []domain.Tag{{ID: "tag-1", Title: "Growth", SourceIDs: []string{"src-1"}}},
	}
	svc, _ := newTestSync(api, vault, nil)

	summary, err := svc.LinkTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TagsLinked)
	assert.Contains(t, vault.Files()["Margin/Tags/growth.md"], "- [[deep-work]]")
}

func TestSyncService_StatusIdle(t *testing.T) {
	svc, _ := newTestSync(&mockHighlightsAPI{}, memory.NewVault(), nil)
	status := svc.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.Stage)
}
