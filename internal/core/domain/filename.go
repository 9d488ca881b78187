package domain

import "strings"

// FilenameOptions controls safe filename derivation.
type FilenameOptions struct {
	// Replacement is the character substituted for reserved characters
	// and whitespace. Defaults to "-" when empty.
	Replacement string

	// Lowercase lower-cases the title before derivation.
	Lowercase bool

	// CollapseWhitespace collapses runs of whitespace to a single space
	// before replacement.
	CollapseWhitespace bool

	// Trim strips leading and trailing whitespace before replacement.
	Trim bool
}

// DefaultFilenameOptions returns the stock derivation behaviour:
// lowercase with "-" replacement, whitespace collapsed and trimmed.
func DefaultFilenameOptions() FilenameOptions {
	return FilenameOptions{
		Replacement:        "-",
		Lowercase:          true,
		CollapseWhitespace: true,
		Trim:               true,
	}
}

// reservedFilenameChars are characters rejected by at least one common
// filesystem. Each occurrence is replaced, never dropped.
const reservedFilenameChars = `\/:*?"<>|`

// DeriveFilename turns an arbitrary title into a filesystem-safe slug.
//
// The derivation is injective enough in practice but NOT collision-free;
// collision handling is the caller's responsibility. Pure function, never
// fails for any string input.
func DeriveFilename(title string, opts FilenameOptions) string {
	rep := opts.Replacement
	if rep == "" {
		rep = "-"
	}

	s := title
	if opts.Lowercase {
		s = strings.ToLower(s)
	}

	// Reserved and control characters become the replacement character.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(reservedFilenameChars, r):
			b.WriteString(rep)
		case r < 32 || r == 127:
			b.WriteString(rep)
		default:
			b.WriteRune(r)
		}
	}
	s = b.String()

	if opts.CollapseWhitespace {
		s = collapseWhitespace(s)
	}
	if opts.Trim {
		s = strings.TrimSpace(s)
	}

	// Remaining whitespace becomes the replacement character.
	s = replaceWhitespace(s, rep)

	// Collapse replacement runs and strip them from the ends.
	for strings.Contains(s, rep+rep) {
		s = strings.ReplaceAll(s, rep+rep, rep)
	}
	s = strings.Trim(s, rep)

	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// collapseWhitespace reduces each run of whitespace to a single space.
// Leading and trailing runs are kept (as single spaces) so the Trim
// option stays independent.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isSpace(r) {
			if !inRun {
				b.WriteRune(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// replaceWhitespace substitutes the replacement string for each
// whitespace rune.
func replaceWhitespace(s, rep string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSpace(r) {
			b.WriteString(rep)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
