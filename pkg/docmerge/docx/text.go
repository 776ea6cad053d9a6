package docx

import (
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// paragraphExpr selects every body paragraph, including those in tables.
var paragraphExpr = xpath.MustCompile("//w:body//w:p")

// Text flattens the text of a WordprocessingML document in reading order.
// Paragraphs end with a newline, <w:tab/> becomes a tab and <w:br/> a newline.
// Paragraphs nested in text boxes are emitted on their own, not inline.
func Text(documentXML string) (string, error) {
	doc, err := xmlquery.Parse(strings.NewReader(documentXML))
	if err != nil {
		return "", &DocumentError{Operation: "parse", Path: DocumentPartName, Cause: err}
	}

	var b strings.Builder
	for _, para := range xmlquery.QuerySelectorAll(doc, paragraphExpr) {
		writeParagraphText(&b, para)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func writeParagraphText(b *strings.Builder, node *xmlquery.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		if child.Prefix != "w" {
			continue
		}

		switch child.Data {
		case "p":
			// nested paragraph, selected separately
		case "t":
			b.WriteString(child.InnerText())
		case "tab":
			b.WriteByte('\t')
		case "br", "cr":
			b.WriteByte('\n')
		case "instrText", "delText":
			// field codes and deleted revisions are not reading text
		default:
			writeParagraphText(b, child)
		}
	}
}
