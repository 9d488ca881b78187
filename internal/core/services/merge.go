package services

import (
	"context"
	"fmt"

	"github.com/margin-labs/margin-cli/internal/core/domain"
	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// MergeEngine merges remote sources into the vault. Existing file text
// is never truncated or reordered: the engine only appends highlight
// blocks whose content identity is not already present.
type MergeEngine struct {
	vault driven.Vault
}

// NewMergeEngine creates a new merge engine.
func NewMergeEngine(vault driven.Vault) *MergeEngine {
	return &MergeEngine{vault: vault}
}

// MergeStats reports what one merge run did.
type MergeStats struct {
	SourcesSeen int
	QuotesAdded int
	ErrorCount  int
}

// Run merges all sources and returns the cycle-scoped name index
// (source id -> rendered file stem). The index includes every source,
// new or existing, and is valid only for the cycle that produced it.
//
// A write failure for one source is logged and skipped; it never aborts
// the remaining sources. Context cancellation is honoured between
// records.
func (e *MergeEngine) Run(ctx context.Context, settings domain.SyncSettings, sources []domain.Source) (domain.NameIndex, MergeStats, error) {
	stats := MergeStats{}
	names := make(domain.NameIndex, len(sources))

	root := settings.RootFolder
	if err := e.vault.CreateFolder(ctx, root); err != nil {
		return nil, stats, fmt.Errorf("create root folder: %w", err)
	}

	// One subfolder per distinct normalised type.
	folders := make(map[string]bool)
	for _, src := range sources {
		folders[domain.TypeFolder(src.Type)] = true
	}
	for folder := range folders {
		if err := e.vault.CreateFolder(ctx, root+"/"+folder); err != nil {
			return nil, stats, fmt.Errorf("create type folder %s: %w", folder, err)
		}
	}

	for i := range sources {
		if err := ctx.Err(); err != nil {
			return names, stats, err
		}

		src := &sources[i]
		stem := e.deriveStem(settings, *src)
		names[src.ID] = stem
		stats.SourcesSeen++

		added, err := e.mergeOne(ctx, settings, *src, stem)
		stats.QuotesAdded += added
		if err != nil {
			stats.ErrorCount++
			logger.Warn("merge %s (%s): %v", src.Title, src.ID, err)
			continue
		}
	}

	logger.Info("merge complete: %d sources, %d quotes added, %d errors",
		stats.SourcesSeen, stats.QuotesAdded, stats.ErrorCount)
	return names, stats, nil
}

// deriveStem computes a source's file stem: the filename template
// rendered with all source attributes, passed through safe derivation.
// A title that derives to nothing falls back to the source id.
func (e *MergeEngine) deriveStem(settings domain.SyncSettings, src domain.Source) string {
	tmpl := settings.FilenameTemplate
	if tmpl == "" {
		tmpl = domain.DefaultFilenameTemplate
	}
	rendered := domain.RenderTemplate(tmpl, sourceData(src))

	stem := domain.DeriveFilename(rendered, settings.FilenameOptions())
	if stem == "" {
		stem = domain.DeriveFilename(src.ID, settings.FilenameOptions())
	}
	return stem
}

// mergeOne merges a single source's quotes into its target file and
// returns the number of appended blocks.
func (e *MergeEngine) mergeOne(ctx context.Context, settings domain.SyncSettings, src domain.Source, stem string) (int, error) {
	path := settings.RootFolder + "/" + domain.TypeFolder(src.Type) + "/" + stem + ".md"

	exists, err := e.vault.Exists(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	var content string
	seen := make(map[string]bool)

	if exists {
		text, err := e.vault.Read(ctx, path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		// Identity mode follows configuration, not file contents: a
		// configured quote template selects marker extraction, its
		// absence the legacy "> " blockquote parse.
		var identities []string
		if settings.QuoteTemplate != "" {
			identities = domain.ExtractMarked(text)
		} else {
			identities = domain.ExtractBlockquoted(text)
		}
		for _, id := range identities {
			seen[id] = true
		}
		content = text
	} else {
		content = renderSourceHeader(settings, src)
	}

	added := 0
	for _, q := range src.Quotes {
		block, identity := renderQuoteBlock(settings, q)
		if seen[identity] {
			continue
		}
		seen[identity] = true
		content += block
		added++
	}

	if exists {
		if added == 0 {
			logger.Debug("%s unchanged", path)
			return 0, nil
		}
		if err := e.vault.Modify(ctx, path, content); err != nil {
			return 0, fmt.Errorf("modify %s: %w", path, err)
		}
		return added, nil
	}

	if err := e.vault.Create(ctx, path, content); err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	return added, nil
}
