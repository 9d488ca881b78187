package domain

// DailyReflection is an ephemeral, server-selected daily pick: one
// source reference plus one quote. It has no identity beyond "today";
// exactly one is meaningful per calendar day per user.
type DailyReflection struct {
	// SourceID references the source the quote came from.
	SourceID string

	// SourceTitle is the source title, used verbatim when the source's
	// rendered filename is not known in the current cycle.
	SourceTitle string

	// SourceAuthor is the source author.
	SourceAuthor string

	// SourceType is the open source classification.
	SourceType string

	// Quote is the highlighted text.
	Quote string

	// Note is the user's optional annotation.
	Note string

	// Location is a human-readable position reference.
	Location string

	// Color is a free-text highlight colour name.
	Color string
}
