package domain

import (
	"strings"
	"time"
)

// TemplateData carries the values available to a template render.
//
// Fields are flat string substitutions: every literal occurrence of
// {{name}} becomes the field value, the empty string included. Times are
// date-capable fields: {{name}} renders through DateFormat and
// {{name|date:PATTERN}} through PATTERN. Placeholders whose name is in
// neither map are left untouched.
type TemplateData struct {
	Fields map[string]string
	Times  map[string]time.Time

	// DateFormat is the moment-style pattern for plain time
	// placeholders. Empty falls back to DefaultDateFormat.
	DateFormat string
}

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
	datePrefix       = "|date:"
)

// RenderTemplate expands a flat placeholder template in a single pass
// over parsed tokens. Because substitution happens token by token, a
// field value that itself contains {{...}}-like text is never
// re-interpreted as a placeholder, and the |date: extended form is a
// first-class token rather than a pre-pass special case.
func RenderTemplate(tmpl string, data TemplateData) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for {
		open := strings.Index(tmpl, placeholderOpen)
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		closing := strings.Index(tmpl[open:], placeholderClose)
		if closing < 0 {
			b.WriteString(tmpl)
			return b.String()
		}

		b.WriteString(tmpl[:open])
		token := tmpl[open+len(placeholderOpen) : open+closing]
		tmpl = tmpl[open+closing+len(placeholderClose):]

		name, pattern := token, ""
		if i := strings.Index(token, datePrefix); i >= 0 {
			name = token[:i]
			pattern = token[i+len(datePrefix):]
		}

		switch {
		case pattern == "":
			if v, ok := data.Fields[name]; ok {
				b.WriteString(v)
				continue
			}
			if t, ok := data.Times[name]; ok {
				b.WriteString(FormatDate(t, data.DateFormat))
				continue
			}
		default:
			if t, ok := data.Times[name]; ok {
				b.WriteString(FormatDate(t, pattern))
				continue
			}
		}

		// Unrecognised placeholder: emit it literally.
		b.WriteString(placeholderOpen)
		b.WriteString(token)
		b.WriteString(placeholderClose)
	}
}
