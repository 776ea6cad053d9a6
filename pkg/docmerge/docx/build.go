package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>`

const documentFooter = `</w:body>
</w:document>`

// Paragraph returns a single-run paragraph holding text, escaped for XML.
func Paragraph(text string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(text))
	return `<w:p><w:r><w:t xml:space="preserve">` + escaped.String() + `</w:t></w:r></w:p>`
}

// DocumentXML wraps body markup in a w:document root.
func DocumentXML(bodyXML string) string {
	return documentHeader + bodyXML + documentFooter
}

// NewDocument builds a minimal DOCX package whose body is bodyXML. Use
// Paragraph to produce body markup from plain text.
func NewDocument(bodyXML string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
		{DocumentPartName, DocumentXML(bodyXML)},
	}

	for _, part := range parts {
		fw, err := w.Create(part.name)
		if err != nil {
			return nil, &DocumentError{Operation: "create", Path: part.name, Cause: err}
		}
		if _, err := io.WriteString(fw, part.content); err != nil {
			return nil, &DocumentError{Operation: "create", Path: part.name, Cause: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, &DocumentError{Operation: "create", Cause: err}
	}
	return buf.Bytes(), nil
}

// Paragraphs joins one Paragraph per line of text.
func Paragraphs(lines ...string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(Paragraph(line))
	}
	return b.String()
}
