package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Source represents a book, article or podcast the user is reading,
// together with its child highlights as received from the remote service.
type Source struct {
	// ID is the stable, globally unique identifier. Title and author may
	// be edited remotely without affecting the association between a
	// Source and its already-created file beyond filename regeneration.
	ID string

	// Title is the source title.
	Title string

	// Subtitle is the optional subtitle.
	Subtitle string

	// Author is the source author.
	Author string

	// Type is the open classification string (e.g. "book", "article",
	// "podcast"). Any value is accepted; it is normalised once for
	// folder naming and never special-cased per type.
	Type string

	// Origin is the platform the source came from.
	Origin string

	// CatalogID is an optional external catalog identifier.
	CatalogID string

	// CreatedAt is when the source was created remotely.
	CreatedAt time.Time

	// Quotes are the child highlights, in the order received.
	Quotes []Quote
}

// Quote is a single highlight belonging to exactly one Source.
type Quote struct {
	ID string

	// Content is the highlighted text. Within one Source's rendered
	// file each distinct Content value appears at most once, however
	// many times the sync reruns.
	Content string

	// Note is the user's optional annotation.
	Note string

	// Color is a free-text highlight colour name.
	Color string

	// Location is a human-readable position reference.
	Location string

	// SourceID is the owning source.
	SourceID string

	CreatedAt time.Time
}

// NameIndex maps source IDs to rendered file stems (filename without the
// .md extension). It is rebuilt at the start of every sync cycle by the
// merge engine and consumed read-only by the tag linker and reflection
// injector within the same cycle. It is never persisted.
type NameIndex map[string]string

// NormalizeType canonicalises an open type string for folder naming:
// first letter upper-cased, remainder lower-cased. Unknown types are
// treated uniformly.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return "Source"
	}
	r, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(r)) + strings.ToLower(t[size:])
}

// TypeFolder returns the per-type subfolder name for a source type,
// e.g. "book" -> "Books".
func TypeFolder(t string) string {
	return NormalizeType(t) + "s"
}
