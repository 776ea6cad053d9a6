package docmerge

import "strings"

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five markup-sensitive characters with entities. It is
// applied to substituted answer text only, never to template text.
func Escape(value string) string {
	if !strings.ContainsAny(value, `&<>"'`) {
		return value
	}
	return markupEscaper.Replace(value)
}
