// Package docx provides an in-memory, mutable view of the tables inside a
// WordprocessingML (.docx) package. Every Open call builds an independent tree,
// so documents opened from the same template bytes never share state.
package docx

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/zip"
)

// MainPart is the package part holding the document body
const MainPart = "word/document.xml"

// ContentType is the media type of a .docx file
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	ErrNotDocx     = errors.New("not a docx package")
	ErrMissingBody = errors.New("document has no body")
)

// part is one entry of the zip container, kept in its original order
type part struct {
	header zip.FileHeader
	data   []byte
}

// Document is a parsed .docx package
type Document struct {
	parts []part
	main  int
	xml   *etree.Document
	body  *etree.Element
}

// Open parses a .docx package
func Open(b []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	doc := &Document{main: -1}
	for _, f := range zr.File {
		data, err := readPart(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		if f.Name == MainPart {
			doc.main = len(doc.parts)
		}
		doc.parts = append(doc.parts, part{
			header: zip.FileHeader{Name: f.Name, Method: f.Method, Modified: f.Modified},
			data:   data,
		})
	}

	if doc.main < 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrNotDocx, MainPart)
	}

	doc.xml = etree.NewDocument()
	if err := doc.xml.ReadFromBytes(doc.parts[doc.main].data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", MainPart, err)
	}

	root := doc.xml.Root()
	if root == nil {
		return nil, ErrMissingBody
	}
	doc.body = firstChild(root, "body")
	if doc.body == nil {
		return nil, ErrMissingBody
	}

	return doc, nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Tables returns the top-level tables of the document body in order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range children(d.body, "tbl") {
		tables = append(tables, &Table{el: el})
	}
	return tables
}

// Table returns the table at index i
func (d *Document) Table(i int) (*Table, error) {
	tables := d.Tables()
	if i < 0 || i >= len(tables) {
		return nil, fmt.Errorf("table %d out of range (document has %d)", i, len(tables))
	}
	return tables[i], nil
}

// Bytes serializes the document. Parts other than the main document are
// written back unchanged and in their original order.
func (d *Document) Bytes() ([]byte, error) {
	mainXML, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s: %w", MainPart, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, p := range d.parts {
		data := p.data
		if i == d.main {
			data = mainXML
		}

		header := p.header
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", p.header.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", p.header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}

	return buf.Bytes(), nil
}

// children returns the direct WordprocessingML children of el with the given
// local name
func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Space == "w" && c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func firstChild(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Space == "w" && c.Tag == tag {
			return c
		}
	}
	return nil
}
