package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margin-labs/margin-cli/internal/adapters/driven/storage/memory"
	"github.com/margin-labs/margin-cli/internal/core/domain"
)

func TestTagLinker_CreatesTagFile(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	tags := []domain.Tag{{
		ID:          "tag-1",
		Title:       "Growth",
		Description: "Personal growth highlights.",
		SourceIDs:   []string{"src-1"},
	}}
	names := domain.NameIndex{"src-1": "deep-work"}

	stats, err := linker.Run(context.Background(), testSettings(), tags, names)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TagsLinked)

	content, err := vault.Read(context.Background(), "Margin/Tags/growth.md")
	require.NoError(t, err)
	assert.Contains(t, content, "# Growth")
	assert.Contains(t, content, "Personal growth highlights.")
	assert.Contains(t, content, "## Sources")
	assert.Contains(t, content, "- [[deep-work]]")
}

func TestTagLinker_CreateOnce(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)
	ctx := context.Background()

	tags := []domain.Tag{{ID: "tag-1", Title: "Growth", SourceIDs: []string{"src-1"}}}
	_, err := linker.Run(ctx, testSettings(), tags, domain.NameIndex{"src-1": "deep-work"})
	require.NoError(t, err)

	// User rewrites the tag file; a later run must not touch it.
	require.NoError(t, vault.Modify(ctx, "Margin/Tags/growth.md", "my own tag page"))

	tags[0].SourceIDs = append(tags[0].SourceIDs, "src-2")
	stats, err := linker.Run(ctx, testSettings(), tags, domain.NameIndex{})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TagsLinked)
	assert.Equal(t, "my own tag page", vault.Files()["Margin/Tags/growth.md"])
}

func TestTagLinker_DuplicateTitlesGetSuffixes(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	tags := []domain.Tag{
		{ID: "tag-1", Title: "Growth"},
		{ID: "tag-2", Title: "Growth"},
	}
	stats, err := linker.Run(context.Background(), testSettings(), tags, domain.NameIndex{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TagsLinked)
	files := vault.Files()
	assert.Contains(t, files, "Margin/Tags/growth.md")
	assert.Contains(t, files, "Margin/Tags/growth-1.md")
}

func TestTagLinker_AvoidsSourceFileCollision(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	// A source file already claims the name in a sibling folder.
	vault.Put("Margin/Books/growth.md", "# Growth\n")

	tags := []domain.Tag{{ID: "tag-1", Title: "Growth"}}
	stats, err := linker.Run(context.Background(), testSettings(), tags, domain.NameIndex{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TagsLinked)
	files := vault.Files()
	assert.NotContains(t, files, "Margin/Tags/growth.md")
	assert.Contains(t, files, "Margin/Tags/growth-1.md")
}

func TestTagLinker_ResolvesByContentScan(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	// The source id appears literally in an existing file; the scan wins
	// over the name index and the raw id.
	vault.Put("Margin/Books/deep-work.md", "header\n\nsrc-1\n")

	tags := []domain.Tag{{ID: "tag-1", Title: "Focus", SourceIDs: []string{"src-1"}}}
	_, err := linker.Run(context.Background(), testSettings(), tags, domain.NameIndex{"src-1": "other-name"})
	require.NoError(t, err)

	content := vault.Files()["Margin/Tags/focus.md"]
	assert.Contains(t, content, "- [[deep-work]]")
	assert.NotContains(t, content, "- [[other-name]]")
}

func TestTagLinker_ResolvesByRawIDFallback(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	tags := []domain.Tag{{ID: "tag-1", Title: "Focus", SourceIDs: []string{"SRC 9"}}}
	_, err := linker.Run(context.Background(), testSettings(), tags, domain.NameIndex{})
	require.NoError(t, err)

	assert.Contains(t, vault.Files()["Margin/Tags/focus.md"], "- [[src-9]]")
}

func TestTagLinker_EmptyTitleFallsBackToID(t *testing.T) {
	vault := memory.NewVault()
	linker := NewTagLinker(vault)

	tags := []domain.Tag{{ID: "Tag 7", Title: "??"}}
	stats, err := linker.Run(context.Background(), testSettings(), tags, domain.NameIndex{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TagsLinked)
	assert.Contains(t, vault.Files(), "Margin/Tags/tag-7.md")
}
