package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/adapters/driven/storage/memory"
	"github.com/margin-labs/margin-cli/internal/core/domain"
)

func testSettings() domain.SyncSettings {
	s := domain.DefaultSyncSettings()
	s.RootFolder = "Margin"
	return s
}

func bookSource(quotes ...domain.Quote) domain.Source {
	return domain.Source{
		ID:        "src-1",
		Title:     "Deep Work",
		Author:    "Cal Newport",
		Type:      "Book",
		Origin:    "kindle",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Quotes:    quotes,
	}
}

func quote(id, content string) domain.Quote {
	return domain.Quote{
		ID:       id,
		Content:  content,
		Location: "Page 12",
		SourceID: "src-1",
	}
}

func TestMergeEngine_CreatesFileWithHeaderAndQuotes(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)

	src := bookSource(quote("q1", "Focus is a skill."), quote("q2", "Depth is rare."))
	names, stats, err := engine.Run(context.Background(), testSettings(), []domain.Source{src})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SourcesSeen)
	assert.Equal(t, 2, stats.QuotesAdded)
	assert.Equal(t, 0, stats.ErrorCount)
	assert.Equal(t, "deep-work", names["src-1"])

	content, err := vault.Read(context.Background(), "Margin/Books/deep-work.md")
	require.NoError(t, err)
	assert.Contains(t, content, "# Deep Work")
	assert.Contains(t, content, "**Author:** [[Cal Newport]]")
	assert.Contains(t, content, "> Focus is a skill.")
	assert.Contains(t, content, "> Depth is rare.")
}

func TestMergeEngine_Idempotent(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	src := bookSource(quote("q1", "Focus is a skill."))
	_, _, err := engine.Run(ctx, testSettings(), []domain.Source{src})
	require.NoError(t, err)
	first := vault.Files()["Margin/Books/deep-work.md"]

	_, stats, err := engine.Run(ctx, testSettings(), []domain.Source{src})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.QuotesAdded)
	assert.Equal(t, first, vault.Files()["Margin/Books/deep-work.md"])
}

func TestMergeEngine_AppendsOnlyNewQuotes(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	a := quote("q1", "Alpha")
	b := quote("q2", "Beta")
	c := quote("q3", "Gamma")

	_, _, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(a, b)})
	require.NoError(t, err)

	_, stats, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(a, b, c)})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.QuotesAdded)
	content := vault.Files()["Margin/Books/deep-work.md"]
	assert.Equal(t, 1, countOccurrences(content, "> Alpha"))
	assert.Equal(t, 1, countOccurrences(content, "> Beta"))
	assert.Equal(t, 1, countOccurrences(content, "> Gamma"))
}

func TestMergeEngine_DuplicateContentAcrossIDs(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	// Same content under a fresh id. Identity is content, not id.
	_, _, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(quote("q1", "Alpha"))})
	require.NoError(t, err)

	_, stats, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(quote("q99", "Alpha"))})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.QuotesAdded)
}

func TestMergeEngine_SurvivesManualEdits(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	_, _, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(quote("q1", "Alpha"))})
	require.NoError(t, err)

	// User prepends their own notes and reorders nothing else.
	path := "Margin/Books/deep-work.md"
	edited := "my own thoughts\n\n" + vault.Files()[path]
	require.NoError(t, vault.Modify(ctx, path, edited))

	_, stats, err := engine.Run(ctx, testSettings(), []domain.Source{bookSource(quote("q1", "Alpha"), quote("q2", "Beta"))})
	require.NoError(t, err)

	content := vault.Files()[path]
	assert.Equal(t, 1, stats.QuotesAdded)
	assert.Contains(t, content, "my own thoughts")
	assert.Equal(t, 1, countOccurrences(content, "> Alpha"))
	assert.Contains(t, content, "> Beta")
}

func TestMergeEngine_TemplateModeUsesMarkers(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	settings := testSettings()
	settings.QuoteTemplate = "{{content}}\n*{{location}}*\n\n"

	_, _, err := engine.Run(ctx, settings, []domain.Source{bookSource(quote("q1", "Alpha"))})
	require.NoError(t, err)

	content := vault.Files()["Margin/Books/deep-work.md"]
	assert.True(t, domain.HasMarked(content))
	assert.Equal(t, []string{"Alpha"}, domain.ExtractMarked(content))
	assert.Contains(t, content, "*Page 12*")

	// Re-sync in template mode stays idempotent.
	_, stats, err := engine.Run(ctx, settings, []domain.Source{bookSource(quote("q1", "Alpha"))})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.QuotesAdded)
}

func TestMergeEngine_ColorStyling(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)
	ctx := context.Background()

	settings := testSettings()
	settings.ColorMode = domain.ColorModeBackground

	q := quote("q1", "Alpha")
	q.Color = "yellow"
	_, _, err := engine.Run(ctx, settings, []domain.Source{bookSource(q)})
	require.NoError(t, err)

	content := vault.Files()["Margin/Books/deep-work.md"]
	assert.Contains(t, content, `<span style="background-color:#fff3a3">Alpha</span>`)

	// Styled content is the identity, so a re-sync under the same mode
	// adds nothing.
	_, stats, err := engine.Run(ctx, settings, []domain.Source{bookSource(q)})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.QuotesAdded)
}

func TestMergeEngine_UnknownColorUnstyled(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)

	settings := testSettings()
	settings.ColorMode = domain.ColorModeText

	q := quote("q1", "Alpha")
	q.Color = "chartreuse"
	_, _, err := engine.Run(context.Background(), settings, []domain.Source{bookSource(q)})
	require.NoError(t, err)

	content := vault.Files()["Margin/Books/deep-work.md"]
	assert.Contains(t, content, "> Alpha")
	assert.NotContains(t, content, "<span")
}

func TestMergeEngine_TypeFolders(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)

	sources := []domain.Source{
		{ID: "a", Title: "Some Book", Type: "Book"},
		{ID: "b", Title: "Some Cast", Type: "Podcast"},
		{ID: "c", Title: "Untyped"},
	}
	names, stats, err := engine.Run(context.Background(), testSettings(), sources)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.SourcesSeen)

	files := vault.Files()
	assert.Contains(t, files, "Margin/Books/some-book.md")
	assert.Contains(t, files, "Margin/Podcasts/some-cast.md")
	assert.Contains(t, files, "Margin/Sources/untyped.md")
	assert.Equal(t, "untyped", names["c"])
}

func TestMergeEngine_EmptyTitleFallsBackToID(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)

	src := domain.Source{ID: "ABC-123", Title: "???", Type: "Book"}
	names, _, err := engine.Run(context.Background(), testSettings(), []domain.Source{src})
	require.NoError(t, err)

	assert.Equal(t, "abc-123", names["ABC-123"])
	assert.Contains(t, vault.Files(), "Margin/Books/abc-123.md")
}

func TestMergeEngine_FilenameTemplate(t *testing.T) {
	vault := memory.NewVault()
	engine := NewMergeEngine(vault)

	settings := testSettings()
	settings.FilenameTemplate = "{{author}} - {{title}}"

	_, _, err := engine.Run(context.Background(), settings, []domain.Source{bookSource()})
	require.NoError(t, err)
	assert.Contains(t, vault.Files(), "Margin/Books/cal-newport-deep-work.md")
}

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}
