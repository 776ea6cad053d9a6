// Package docx reads and rewrites the main document part of a DOCX package.
//
// It is the archive shell around the merge engine: it hands word/document.xml
// to the engine as a string, and writes the merged string back while copying
// every other part byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// DocumentPartName is the path of the main document inside the archive
const DocumentPartName = "word/document.xml"

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Package is an opened DOCX archive
type Package struct {
	reader *zip.Reader
	parts  map[string]*zip.File
}

// Open reads a DOCX archive and checks that it carries a main document
func Open(r io.ReaderAt, size int64) (*Package, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &DocumentError{Operation: "open", Cause: err}
	}

	pkg := &Package{
		reader: zipReader,
		parts:  make(map[string]*zip.File, len(zipReader.File)),
	}
	for _, file := range zipReader.File {
		pkg.parts[file.Name] = file
	}

	if _, ok := pkg.parts[DocumentPartName]; !ok {
		return nil, &DocumentError{Operation: "open", Path: DocumentPartName, Cause: fmt.Errorf("not a valid DOCX file: missing main document")}
	}

	return pkg, nil
}

// OpenBytes opens a DOCX archive held in memory
func OpenBytes(data []byte) (*Package, error) {
	return Open(bytes.NewReader(data), int64(len(data)))
}

// OpenFile opens a DOCX archive from a file path
func OpenFile(path string) (*Package, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Operation: "read", Path: path, Cause: err}
	}
	return OpenBytes(content)
}

// Part returns the content of a named part
func (p *Package) Part(name string) ([]byte, error) {
	file, ok := p.parts[name]
	if !ok {
		return nil, &DocumentError{Operation: "read", Path: name, Cause: fmt.Errorf("part not found")}
	}

	rc, err := file.Open()
	if err != nil {
		return nil, &DocumentError{Operation: "read", Path: name, Cause: err}
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, &DocumentError{Operation: "read", Path: name, Cause: err}
	}
	return content, nil
}

// DocumentXML returns word/document.xml as a string
func (p *Package) DocumentXML() (string, error) {
	content, err := p.Part(DocumentPartName)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Parts lists every part name in sorted order
func (p *Package) Parts() []string {
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteDocument writes a copy of the package to w with the main document
// replaced by documentXML. Part order and compression follow the source.
func (p *Package) WriteDocument(w io.Writer, documentXML string) error {
	zw := zip.NewWriter(w)

	for _, file := range p.reader.File {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     file.Name,
			Method:   file.Method,
			Modified: file.Modified,
		})
		if err != nil {
			return &DocumentError{Operation: "write", Path: file.Name, Cause: err}
		}

		if file.Name == DocumentPartName {
			if _, err := io.WriteString(fw, documentXML); err != nil {
				return &DocumentError{Operation: "write", Path: file.Name, Cause: err}
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return &DocumentError{Operation: "copy", Path: file.Name, Cause: err}
		}
		_, err = io.Copy(fw, rc)
		rc.Close()
		if err != nil {
			return &DocumentError{Operation: "copy", Path: file.Name, Cause: err}
		}
	}

	if err := zw.Close(); err != nil {
		return &DocumentError{Operation: "write", Cause: err}
	}
	return nil
}

// Bytes returns the package with the main document replaced
func (p *Package) Bytes(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteDocument(&buf, documentXML); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
