package domain

import (
	"strings"
	"time"
)

// DefaultDateFormat is the pattern used for plain {{createdAt}}
// placeholders and as the stock daily-note filename pattern.
const DefaultDateFormat = "YYYY-MM-DD"

// momentTokens maps moment-style pattern tokens to Go reference-layout
// fragments. Ordered longest-first so the scanner is greedy.
var momentTokens = []struct {
	pattern string
	layout  string
}{
	{"YYYY", "2006"},
	{"dddd", "Monday"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
	{"h", "3"},
	{"m", "4"},
	{"s", "5"},
	{"A", "PM"},
	{"a", "pm"},
}

// FormatDate renders t through a moment-style pattern (the convention
// the remote service's web app uses, e.g. "YYYY-MM-DD" or
// "DD MMM YYYY"). Text wrapped in square brackets is emitted literally.
// An empty pattern falls back to DefaultDateFormat.
func FormatDate(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultDateFormat
	}

	var b strings.Builder
	b.Grow(len(pattern))

	for i := 0; i < len(pattern); {
		if pattern[i] == '[' {
			end := strings.IndexByte(pattern[i:], ']')
			if end > 0 {
				b.WriteString(pattern[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		matched := false
		for _, tok := range momentTokens {
			if strings.HasPrefix(pattern[i:], tok.pattern) {
				b.WriteString(t.Format(tok.layout))
				i += len(tok.pattern)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}

	return b.String()
}
