// Package coshh assembles COSHH assessment documents from submitted chemical
// records and the form and ticks templates.
package coshh

import (
	"fmt"
	"strings"
	"time"

	"github.com/giygas/coshh-api/docx"
)

// ChemicalRecord is one chemical row of the form as submitted by the client.
// Missing fields decode to empty values.
type ChemicalRecord struct {
	Name    string   `json:"name"`
	Amount  string   `json:"amount"`
	Hazards []string `json:"hazards"`
}

// HazardText joins the hazard statements the way they are written into the
// hazards cell
func (r ChemicalRecord) HazardText() string {
	return strings.Join(r.Hazards, "\n")
}

// Filename returns the delivery filename for a document generated at t
func Filename(t time.Time) string {
	return fmt.Sprintf("COSHH_%s.docx", t.UTC().Format("20060102150405"))
}

// DateStamp formats t the way the form's date cell expects it (dd/mm/yyyy)
func DateStamp(t time.Time) string {
	return t.Format("02/01/2006")
}

// Document is a generated COSHH form ready for delivery
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Rows        int
	Data        []byte
}

// newDocument wraps serialized bytes with their delivery metadata
func newDocument(id string, generated time.Time, rows int, data []byte) *Document {
	return &Document{
		ID:          id,
		Filename:    Filename(generated),
		ContentType: docx.ContentType,
		Rows:        rows,
		Data:        data,
	}
}
