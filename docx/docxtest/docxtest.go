// Package docxtest builds small .docx packages for tests.
package docxtest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zip"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Table is a grid of cell texts, one slice per row
type Table [][]string

// Build returns a .docx package whose body holds the given tables, separated
// by empty paragraphs
func Build(tables ...Table) []byte {
	var body strings.Builder
	for _, t := range tables {
		body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr>`)
		for _, row := range t {
			body.WriteString(`<w:tr>`)
			for _, text := range row {
				body.WriteString(`<w:tc><w:tcPr><w:tcW w:w="1000" w:type="dxa"/></w:tcPr><w:p><w:r><w:t xml:space="preserve">`)
				_ = xml.EscapeText(&body, []byte(text))
				body.WriteString(`</w:t></w:r></w:p></w:tc>`)
			}
			body.WriteString(`</w:tr>`)
		}
		body.WriteString(`</w:tbl><w:p/>`)
	}

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `<w:sectPr/></w:body></w:document>`

	return pack(map[string]string{
		"[Content_Types].xml": contentTypes,
		"_rels/.rels":         rootRels,
		"word/document.xml":   documentXML,
	}, "[Content_Types].xml", "_rels/.rels", "word/document.xml")
}

// BuildWithoutBody returns a package whose main part has no w:body
func BuildWithoutBody() []byte {
	return pack(map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:document>`,
	}, "[Content_Types].xml", "word/document.xml")
}

func pack(parts map[string]string, order ...string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// FormTemplate returns a COSHH form with the layout the assembler expects:
// a metadata table whose row 1 cell 3 holds the date, an unused table and the
// main table with a header row and one template row of five cells
func FormTemplate() []byte {
	return Build(
		Table{
			{"Title", "COSHH assessment", "", ""},
			{"Assessor", "", "Date", "DD/MM/YYYY"},
		},
		Table{
			{"Notes"},
		},
		Table{
			{"Chemical", "Amount", "Hazards", "Exposure", "Controls"},
			{"name", "amount", "hazards", "exposure", "controls"},
		},
	)
}

// TicksTemplate returns a ticks document: 4 exposure rows and 9 control rows,
// column 0 unchecked and column 1 checked. Cell texts are "exp<i>:0",
// "exp<i>:1", "ctl<i>:0" and "ctl<i>:1".
func TicksTemplate() []byte {
	exposure := make(Table, 4)
	for i := range exposure {
		exposure[i] = []string{fmt.Sprintf("exp%d:0", i), fmt.Sprintf("exp%d:1", i)}
	}
	control := make(Table, 9)
	for i := range control {
		control[i] = []string{fmt.Sprintf("ctl%d:0", i), fmt.Sprintf("ctl%d:1", i)}
	}
	return Build(exposure, control)
}
