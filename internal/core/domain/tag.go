package domain

// Tag is a user-defined label grouping zero or more Sources.
//
// A tag's rendered file is create-once: once a file exists at its
// computed path it is never rewritten by subsequent syncs. This is the
// opposite of Source files, which are re-merged on every cycle.
type Tag struct {
	ID string

	// Title is the tag label.
	Title string

	// Description is optional free text.
	Description string

	// SourceIDs are the referenced source ids, possibly empty.
	SourceIDs []string
}
