package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// tagsFolder is the subfolder tag files live under, beside the per-type
// source folders.
const tagsFolder = "Tags"

// TagLinker materialises tag files. Tag files are create-once: a tag
// whose file already exists at its resolved path is skipped entirely,
// never merged or updated.
type TagLinker struct {
	vault driven.Vault
}

// NewTagLinker creates a new tag linker.
func NewTagLinker(vault driven.Vault) *TagLinker {
	return &TagLinker{vault: vault}
}

// TagStats reports what one link run did.
type TagStats struct {
	TagsLinked int
	ErrorCount int
}

// Run links all tags. names is the name index from the same cycle's
// merge run; standalone invocations pass an empty index and fall back to
// the content scan and the derived raw id.
func (l *TagLinker) Run(ctx context.Context, settings domain.SyncSettings, tags []domain.Tag, names domain.NameIndex) (TagStats, error) {
	stats := TagStats{}

	root := settings.RootFolder
	if err := l.vault.CreateFolder(ctx, root+"/"+tagsFolder); err != nil {
		return stats, fmt.Errorf("create tags folder: %w", err)
	}

	siblings, err := l.listSiblings(ctx, root)
	if err != nil {
		return stats, fmt.Errorf("list vault: %w", err)
	}

	// Names handed out during this run, so two tags with the same
	// title get distinct suffixes in call order.
	assigned := make(map[string]bool)

	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		created, err := l.linkOne(ctx, settings, tag, names, siblings, assigned)
		if err != nil {
			stats.ErrorCount++
			logger.Warn("link tag %s (%s): %v", tag.Title, tag.ID, err)
			continue
		}
		if created {
			stats.TagsLinked++
		}
	}

	logger.Info("tag link complete: %d created, %d errors", stats.TagsLinked, stats.ErrorCount)
	return stats, nil
}

// sibling is one non-Tags top-level subfolder and its markdown files.
type sibling struct {
	folder string
	files  []string
}

// listSiblings captures the file listings of every top-level subfolder
// except the Tags folder's own namespace.
func (l *TagLinker) listSiblings(ctx context.Context, root string) ([]sibling, error) {
	_, folders, err := l.vault.List(ctx, root)
	if err != nil {
		return nil, err
	}

	var siblings []sibling
	for _, folder := range folders {
		if folder == tagsFolder {
			continue
		}
		files, _, err := l.vault.List(ctx, root+"/"+folder)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, sibling{folder: folder, files: files})
	}
	return siblings, nil
}

// linkOne materialises a single tag file. Returns true when a file was
// created, false when the tag was already materialised.
func (l *TagLinker) linkOne(ctx context.Context, settings domain.SyncSettings, tag domain.Tag, names domain.NameIndex, siblings []sibling, assigned map[string]bool) (bool, error) {
	base := domain.DeriveFilename(tag.Title, settings.FilenameOptions())
	if base == "" {
		base = domain.DeriveFilename(tag.ID, settings.FilenameOptions())
	}

	// Suffix until the name collides with neither a sibling-folder file
	// nor a name already handed out this run.
	name := base
	for i := 1; l.collides(name, siblings, assigned); i++ {
		name = base + "-" + strconv.Itoa(i)
	}
	assigned[name] = true

	path := settings.RootFolder + "/" + tagsFolder + "/" + name + ".md"
	exists, err := l.vault.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if exists {
		logger.Debug("tag %s already materialised at %s", tag.Title, path)
		return false, nil
	}

	content := l.render(ctx, settings, tag, names, siblings)

	if err := l.vault.Create(ctx, path, content); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return false, fmt.Errorf("create %s: %w", path, err)
		}
		// Lost a create race; one more attempt, failure ignored.
		if err := l.vault.Create(ctx, path, content); err != nil {
			logger.Debug("tag create retry %s: %v", path, err)
		}
		return false, nil
	}
	return true, nil
}

// collides reports whether name.md is taken by a sibling-folder file or
// was assigned earlier in this run.
func (l *TagLinker) collides(name string, siblings []sibling, assigned map[string]bool) bool {
	if assigned[name] {
		return true
	}
	filename := name + ".md"
	for _, s := range siblings {
		for _, f := range s.files {
			if f == filename {
				return true
			}
		}
	}
	return false
}

// render builds the tag file: heading, optional description, and one
// link per resolved source.
func (l *TagLinker) render(ctx context.Context, settings domain.SyncSettings, tag domain.Tag, names domain.NameIndex, siblings []sibling) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(tag.Title)
	b.WriteString("\n\n")
	if tag.Description != "" {
		b.WriteString(tag.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("## Sources\n\n")

	for _, sourceID := range tag.SourceIDs {
		for _, target := range l.resolveSource(ctx, settings, sourceID, names, siblings) {
			b.WriteString("- [[")
			b.WriteString(target)
			b.WriteString("]]\n")
		}
	}
	return b.String()
}

// resolveSource finds link targets for a referenced source id, in
// confidence order:
//
//  1. files in sibling folders whose text contains the literal id -
//     a heuristic with known false-positive risk, kept for parity with
//     vaults synced by older versions;
//  2. the in-cycle name index;
//  3. the raw id itself, safe-derived.
func (l *TagLinker) resolveSource(ctx context.Context, settings domain.SyncSettings, sourceID string, names domain.NameIndex, siblings []sibling) []string {
	var targets []string
	seen := make(map[string]bool)

	for _, s := range siblings {
		for _, f := range s.files {
			text, err := l.vault.Read(ctx, settings.RootFolder+"/"+s.folder+"/"+f)
			if err != nil {
				logger.Debug("scan %s/%s: %v", s.folder, f, err)
				continue
			}
			if strings.Contains(text, sourceID) {
				stem := strings.TrimSuffix(f, ".md")
				if !seen[stem] {
					seen[stem] = true
					targets = append(targets, stem)
				}
			}
		}
	}
	if len(targets) > 0 {
		return targets
	}

	if stem, ok := names[sourceID]; ok && stem != "" {
		return []string{stem}
	}

	return []string{domain.DeriveFilename(sourceID, settings.FilenameOptions())}
}
