package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	data, err := NewDocument(Paragraph("Hello"))
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	pkg, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}

	want := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/_rels/document.xml.rels",
		"word/document.xml",
	}
	if diff := cmp.Diff(want, pkg.Parts()); diff != "" {
		t.Errorf("Parts mismatch (-want +got):\n%s", diff)
	}

	documentXML, err := pkg.DocumentXML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(documentXML, `<w:t xml:space="preserve">Hello</w:t>`) {
		t.Errorf("unexpected document XML: %s", documentXML)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		path string
	}{
		{"not a zip", []byte("hello"), ""},
		{"missing document", buildArchive(t, map[string]string{"other.xml": "<a/>"}), DocumentPartName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenBytes(tt.data)
			var de *DocumentError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DocumentError, got %v", err)
			}
			if de.Operation != "open" || de.Path != tt.path {
				t.Errorf("got operation %q path %q", de.Operation, de.Path)
			}
		})
	}

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.docx"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestPart(t *testing.T) {
	data := buildArchive(t, map[string]string{
		DocumentPartName:  DocumentXML(""),
		"word/styles.xml": "<styles/>",
		"customXml/a.xml": "<a/>",
	})
	pkg, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	content, err := pkg.Part("word/styles.xml")
	if err != nil || string(content) != "<styles/>" {
		t.Errorf("Part = %q, %v", content, err)
	}
	if _, err := pkg.Part("word/missing.xml"); err == nil {
		t.Error("expected error for missing part")
	}
}

func TestWriteDocument(t *testing.T) {
	data := buildArchive(t, map[string]string{
		DocumentPartName:  DocumentXML(Paragraph("before")),
		"word/styles.xml": "<styles/>",
		"media/image.bin": "\x00\x01\x02",
	})
	pkg, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}

	replacement := DocumentXML(Paragraph("after"))
	out, err := pkg.Bytes(replacement)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	rewritten, err := OpenBytes(out)
	if err != nil {
		t.Fatalf("rewritten package does not open: %v", err)
	}
	if diff := cmp.Diff(pkg.Parts(), rewritten.Parts()); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}

	documentXML, _ := rewritten.DocumentXML()
	if documentXML != replacement {
		t.Errorf("document = %q, want %q", documentXML, replacement)
	}
	for _, name := range []string{"word/styles.xml", "media/image.bin"} {
		before, _ := pkg.Part(name)
		after, _ := rewritten.Part(name)
		if !bytes.Equal(before, after) {
			t.Errorf("part %s changed", name)
		}
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "paragraphs",
			body: Paragraphs("first", "second"),
			want: "first\nsecond\n",
		},
		{
			name: "runs, tabs and breaks",
			body: `<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r><w:r><w:br/><w:t>c</w:t></w:r></w:p>`,
			want: "a\tb\nc\n",
		},
		{
			name: "entities are decoded",
			body: Paragraph(`x < y & "z"`),
			want: "x < y & \"z\"\n",
		},
		{
			name: "field codes and deletions are skipped",
			body: `<w:p><w:r><w:instrText>PAGE</w:instrText></w:r><w:del><w:r><w:delText>old</w:delText></w:r></w:del><w:ins><w:r><w:t>new</w:t></w:r></w:ins></w:p>`,
			want: "new\n",
		},
		{
			name: "table cells",
			body: `<w:tbl><w:tr><w:tc>` + Paragraph("{{a}}") + `</w:tc><w:tc>` + Paragraph("{{b}}") + `</w:tc></w:tr></w:tbl>`,
			want: "{{a}}\n{{b}}\n",
		},
		{
			name: "empty body",
			body: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(DocumentXML(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextMalformed(t *testing.T) {
	_, err := Text("<w:document><w:body></w:p></w:body></w:document>")
	var de *DocumentError
	if !errors.As(err, &de) || de.Operation != "parse" {
		t.Errorf("expected parse DocumentError, got %v", err)
	}
}

func TestDocumentErrorMessage(t *testing.T) {
	tests := []struct {
		err  *DocumentError
		want string
	}{
		{&DocumentError{Operation: "read", Path: "a.xml", Cause: errors.New("boom")}, "document error during read of 'a.xml': boom"},
		{&DocumentError{Operation: "read", Path: "a.xml"}, "document error during read of 'a.xml'"},
		{&DocumentError{Operation: "open", Cause: errors.New("bad zip")}, "document error during open: bad zip"},
		{&DocumentError{Operation: "write"}, "document error during write"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
