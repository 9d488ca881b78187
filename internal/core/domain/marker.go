package domain

import "strings"

// Marker is the reserved invisible character wrapped around rendered
// content so it can be recognised on a later pass regardless of the
// template in effect. U+200B (zero width space) renders as nothing in
// every markdown viewer and is never typed by hand.
const Marker = "\u200b"

// WrapMarked delimits s with the marker pair.
func WrapMarked(s string) string {
	return Marker + s + Marker
}

// ExtractMarked returns the raw strings enclosed in marker pairs, in
// file order. Text between pairs, or after a trailing unpaired marker,
// is ignored. The returned strings are compared verbatim against
// candidate content before appending, so the user is free to edit
// anything outside the marker spans.
func ExtractMarked(text string) []string {
	parts := strings.Split(text, Marker)
	if len(parts) < 3 {
		return nil
	}

	// parts alternates outside/inside; odd indexes sit inside a pair.
	// An odd index at the very end follows an unpaired marker.
	var found []string
	for i := 1; i+1 < len(parts); i += 2 {
		found = append(found, parts[i])
	}
	return found
}

// HasMarked reports whether text contains at least one complete
// marker-delimited span. Used for reflections, where only
// presence/absence matters.
func HasMarked(text string) bool {
	first := strings.Index(text, Marker)
	if first < 0 {
		return false
	}
	return strings.Contains(text[first+len(Marker):], Marker)
}

// ExtractBlockquoted returns the text of every line beginning with "> ",
// without the prefix. This is the fixed-layout identity mode, kept for
// files written before templating existed; it is selected only when no
// quote template is configured, never by inspecting the file.
func ExtractBlockquoted(text string) []string {
	var found []string
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "> "); ok {
			found = append(found, strings.TrimSuffix(rest, "\r"))
		}
	}
	return found
}
