package runs

import (
	"regexp"
	"strings"
)

var (
	// runOpenRegex matches <w:r> and <w:r attr="..."> but not <w:rPr>
	runOpenRegex = regexp.MustCompile(`<w:r(?:\s[^>]*)?>`)

	// textRunRegex matches the inner markup of a plain text run
	textRunRegex = regexp.MustCompile(`(?s)^\s*(?:<w:rPr>(.*)</w:rPr>)?\s*<w:t(?:\s[^>]*)?>([^<]*)</w:t>\s*$`)

	// gapRegex matches markup allowed between two runs that may be merged
	gapRegex = regexp.MustCompile(`^(?:\s|<w:proofErr(?:\s[^>]*)?/>)*$`)
)

const runClose = "</w:r>"

// textRun is a run holding optional properties and exactly one <w:t>.
type textRun struct {
	start      int    // offset of <w:r
	end        int    // offset just past </w:r>
	openTag    string // the <w:r ...> tag as written
	properties string // inner markup of <w:rPr>, "" when absent
	hasProps   bool
	text       string // raw <w:t> content, entities untouched
}

// findTextRuns locates every plain text run in markup, in document order.
// Runs with nested runs (text boxes inside drawings) are skipped.
func findTextRuns(markup string) []textRun {
	var found []textRun

	for _, loc := range runOpenRegex.FindAllStringIndex(markup, -1) {
		if strings.HasSuffix(markup[loc[0]:loc[1]], "/>") {
			continue
		}
		closeIdx := strings.Index(markup[loc[1]:], runClose)
		if closeIdx < 0 {
			continue
		}
		inner := markup[loc[1] : loc[1]+closeIdx]
		if runOpenRegex.MatchString(inner) {
			continue
		}

		m := textRunRegex.FindStringSubmatchIndex(inner)
		if m == nil {
			continue
		}

		run := textRun{
			start:   loc[0],
			end:     loc[1] + closeIdx + len(runClose),
			openTag: markup[loc[0]:loc[1]],
			text:    inner[m[4]:m[5]],
		}
		if m[2] >= 0 {
			run.hasProps = true
			run.properties = inner[m[2]:m[3]]
		}
		found = append(found, run)
	}

	return found
}

// Coalesce merges adjacent text runs so that no directive is split across
// run boundaries. Markup without splittable runs is returned unchanged.
func Coalesce(markup string) string {
	found := findTextRuns(markup)
	if len(found) < 2 {
		return markup
	}

	var b strings.Builder
	b.Grow(len(markup))
	last := 0

	for i := 0; i < len(found); {
		j := i + 1
		text := found[i].text
		for j < len(found) && mergeable(markup, found[i], found[j-1], found[j], text) {
			text += found[j].text
			j++
		}

		if j-i > 1 {
			b.WriteString(markup[last:found[i].start])
			writeRun(&b, found[i], text)
			last = found[j-1].end
		}
		i = j
	}

	b.WriteString(markup[last:])
	return b.String()
}

// mergeable reports whether next can be folded into the group that starts
// at first, ends at prev and holds text so far. The merged run keeps the
// properties of first, so a differently formatted run only joins while a
// directive is still open.
func mergeable(markup string, first, prev, next textRun, text string) bool {
	if !gapRegex.MatchString(markup[prev.end:next.start]) {
		return false
	}
	if HasUnclosedDirective(text) {
		return true
	}
	return first.hasProps == next.hasProps && first.properties == next.properties
}

func writeRun(b *strings.Builder, first textRun, text string) {
	b.WriteString(first.openTag)
	if first.hasProps {
		b.WriteString("<w:rPr>")
		b.WriteString(first.properties)
		b.WriteString("</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(text)
	b.WriteString("</w:t>")
	b.WriteString(runClose)
}

// HasUnclosedDirective reports whether s ends inside a {{ }} or [[ ]]
// directive, including a lone trailing brace that may start one.
func HasUnclosedDirective(s string) bool {
	if strings.LastIndex(s, "{{") > strings.LastIndex(s, "}}") {
		return true
	}
	if strings.LastIndex(s, "[[") > strings.LastIndex(s, "]]") {
		return true
	}
	return strings.HasSuffix(s, "{") || strings.HasSuffix(s, "[")
}

// HasSplitDirective reports whether any text run in markup leaves a
// directive open at its boundary.
func HasSplitDirective(markup string) bool {
	for _, run := range findTextRuns(markup) {
		if HasUnclosedDirective(run.text) {
			return true
		}
	}
	return false
}
