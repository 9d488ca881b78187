package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/margin-labs/margin-cli/internal/core/domain"
)

// Block rendering shared by the merge engine and the reflection
// injector. Each renderer prefers the user's template and falls back to
// the fixed layout the plugin shipped with before templating existed.

// styleContent applies colour styling to highlighted text according to
// the colour mode. Unknown colour names and ColorModeNone render
// unstyled. Styling happens before marker-wrapping, so the styled text
// IS the content identity.
func styleContent(settings domain.SyncSettings, content, color string) string {
	hex := settings.ColorHex(strings.ToLower(strings.TrimSpace(color)))
	if hex == "" {
		return content
	}
	switch settings.ColorMode {
	case domain.ColorModeBackground:
		return fmt.Sprintf(`<span style="background-color:%s">%s</span>`, hex, content)
	case domain.ColorModeText:
		return fmt.Sprintf(`<span style="color:%s">%s</span>`, hex, content)
	default:
		return content
	}
}

// sourceData exposes every source attribute to templates.
func sourceData(src domain.Source) domain.TemplateData {
	return domain.TemplateData{
		Fields: map[string]string{
			"id":        src.ID,
			"title":     src.Title,
			"subtitle":  src.Subtitle,
			"author":    src.Author,
			"type":      src.Type,
			"origin":    src.Origin,
			"catalogId": src.CatalogID,
		},
		Times:      map[string]time.Time{"createdAt": src.CreatedAt},
		DateFormat: domain.DefaultDateFormat,
	}
}

// renderSourceHeader renders the header block a new source file starts
// from.
func renderSourceHeader(settings domain.SyncSettings, src domain.Source) string {
	if settings.SourceTemplate != "" {
		return domain.RenderTemplate(settings.SourceTemplate, sourceData(src))
	}
	return fmt.Sprintf("# %s\n\n**Author:** [[%s]]\n\n**Source:** %s\n\n",
		src.Title, src.Author, domain.NormalizeType(src.Origin))
}

// renderQuoteBlock renders one highlight and returns the block together
// with the identity string duplicate detection keys on. The identity is
// the (possibly styled) content: in template mode it sits between the
// marker pair, in fallback mode on the "> " blockquote line, so either
// extraction recovers it verbatim.
func renderQuoteBlock(settings domain.SyncSettings, q domain.Quote) (block, identity string) {
	styled := styleContent(settings, q.Content, q.Color)

	if settings.QuoteTemplate != "" {
		data := domain.TemplateData{
			Fields: map[string]string{
				"content":  domain.WrapMarked(styled),
				"note":     q.Note,
				"color":    q.Color,
				"location": q.Location,
				"id":       q.ID,
				"sourceId": q.SourceID,
			},
			Times:      map[string]time.Time{"createdAt": q.CreatedAt},
			DateFormat: domain.DefaultDateFormat,
		}
		return domain.RenderTemplate(settings.QuoteTemplate, data), styled
	}

	var b strings.Builder
	b.WriteString("---\n\n> ")
	b.WriteString(styled)
	b.WriteString("\n\n")
	if q.Note != "" {
		b.WriteString("**Note:** ")
		b.WriteString(q.Note)
		b.WriteString("\n\n")
	}
	b.WriteString("**Location:** ")
	b.WriteString(q.Location)
	b.WriteString("\n\n")
	if q.Color != "" {
		b.WriteString("**Color:** ")
		b.WriteString(q.Color)
		b.WriteString("\n\n")
	}
	return b.String(), styled
}

// renderReflectionBlock renders the daily reflection. The whole block is
// wrapped in the marker pair so a re-run recognises it whatever template
// was in effect. sourceRef is the link target: the in-cycle rendered
// filename when known, the source title verbatim otherwise.
func renderReflectionBlock(settings domain.SyncSettings, r *domain.DailyReflection, names domain.NameIndex) string {
	sourceRef := r.SourceTitle
	if stem, ok := names[r.SourceID]; ok && stem != "" {
		sourceRef = stem
	}

	if settings.ReflectionTemplate != "" {
		data := domain.TemplateData{
			Fields: map[string]string{
				"quote":    r.Quote,
				"note":     r.Note,
				"location": r.Location,
				"color":    r.Color,
				"source":   sourceRef,
				"author":   r.SourceAuthor,
				"type":     domain.NormalizeType(r.SourceType),
			},
			DateFormat: domain.DefaultDateFormat,
		}
		return domain.WrapMarked(domain.RenderTemplate(settings.ReflectionTemplate, data))
	}

	block := fmt.Sprintf("\n---\n%s\n\n> \"%s\"\n\n**%s:** [[%s]]\n**Author:** [[%s]]\n**Location:** %s\n\n**Note:** %s\n\n---\n",
		domain.FallbackReflectionHeading, r.Quote,
		domain.NormalizeType(r.SourceType), sourceRef,
		r.SourceAuthor, r.Location, r.Note)
	return domain.WrapMarked(block)
}
