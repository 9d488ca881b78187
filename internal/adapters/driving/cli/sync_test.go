package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	summary *driving.CycleSummary
	err     error
}

func (m *mockSyncOrchestrator) RunCycle(context.Context, domain.SyncTrigger) (*driving.CycleSummary, error) {
	return m.summary, m.err
}

func (m *mockSyncOrchestrator) SyncSources(context.Context) (*driving.CycleSummary, error) {
	return m.summary, m.err
}

func (m *mockSyncOrchestrator) LinkTags(context.Context) (*driving.CycleSummary, error) {
	return m.summary, m.err
}

func (m *mockSyncOrchestrator) InjectReflection(context.Context) (*driving.CycleSummary, error) {
	return m.summary, m.err
}

func (m *mockSyncOrchestrator) Status() *driving.SyncStatus {
	return &driving.SyncStatus{}
}

func setupSyncTest(mock *mockSyncOrchestrator) func() {
	oldSync := syncOrchestrator
	syncOrchestrator = mock
	return func() {
		syncOrchestrator = oldSync
	}
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSyncCmd_Use(t *testing.T) {
	assert.Equal(t, "sync", syncCmd.Use)
}

func TestSyncCmd_PrintsSummary(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{
		summary: &driving.CycleSummary{
			SourcesSeen: 3, QuotesAdded: 7, TagsLinked: 2, ReflectionAdded: true,
		},
	})
	defer cleanup()

	out, err := executeCommand("sync")
	require.NoError(t, err)
	assert.Contains(t, out, "3 sources, 7 new highlights, 2 new tags")
	assert.Contains(t, out, "reflection added")
}

func TestSyncCmd_SkippedCycle(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{
		summary: &driving.CycleSummary{Skipped: true},
	})
	defer cleanup()

	out, err := executeCommand("sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Already synced today")
}

func TestSyncCmd_AlreadyRunning(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{err: domain.ErrSyncInProgress})
	defer cleanup()

	_, err := executeCommand("sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestSyncCmd_NotConfigured(t *testing.T) {
	cleanup := setupSyncTest(nil)
	syncOrchestrator = nil
	defer cleanup()

	_, err := executeCommand("sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestTagsCmd_PrintsResult(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{
		summary: &driving.CycleSummary{TagsLinked: 4},
	})
	defer cleanup()

	out, err := executeCommand("tags")
	require.NoError(t, err)
	assert.Contains(t, out, "4 new tag files")
}

func TestReflectCmd_MissingNote(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{err: domain.ErrDailyNoteMissing})
	defer cleanup()

	_, err := executeCommand("reflect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily note")
}

func TestReflectCmd_Added(t *testing.T) {
	cleanup := setupSyncTest(&mockSyncOrchestrator{
		summary: &driving.CycleSummary{ReflectionAdded: true},
	})
	defer cleanup()

	out, err := executeCommand("reflect")
	require.NoError(t, err)
	assert.Contains(t, out, "Reflection added")
}
