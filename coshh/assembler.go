package coshh

import (
	"errors"
	"fmt"
	"time"

	"github.com/giygas/coshh-api/docx"
	"github.com/giygas/coshh-api/hazard"
	"github.com/giygas/coshh-api/logging"
	"github.com/google/uuid"
)

// Template layout contract. Template authors must keep these positions.
const (
	metaTable   = 0
	dateRow     = 1
	dateCell    = 3
	mainTable   = 2
	templateRow = 1

	nameCell     = 0
	amountCell   = 1
	hazardsCell  = 2
	exposureCell = 3
	controlCell  = 4

	exposureTicksTable = 0
	controlTicksTable  = 1
)

var ErrNoRecords = errors.New("no chemical records supplied")

// TemplateSource supplies the raw template packages. Implementations must
// return bytes that callers may parse but never modify.
type TemplateSource interface {
	FormTemplate() ([]byte, error)
	TicksTemplate() ([]byte, error)
}

// Assembler builds COSHH documents. It holds no per-request state and is safe
// for concurrent use.
type Assembler struct {
	templates TemplateSource
	now       func() time.Time
	newID     func() string
}

// NewAssembler creates an assembler reading templates from src
func NewAssembler(src TemplateSource) *Assembler {
	return &Assembler{
		templates: src,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithClock returns a copy of the assembler using now as its clock
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	c := *a
	c.now = now
	return &c
}

// Assemble generates the COSHH document for records, in order. The first
// record fills the template row as-is; every later record gets its own copy
// of the template row with ticks for its exposure routes and control measures.
func (a *Assembler) Assemble(records []ChemicalRecord) (*Document, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	generated := a.now()
	id := a.newID()

	form, err := a.openForm()
	if err != nil {
		return nil, err
	}

	meta, err := form.Table(metaTable)
	if err != nil {
		return nil, fmt.Errorf("form template has no metadata table: %w", err)
	}
	dateField, err := meta.Cell(dateRow, dateCell)
	if err != nil {
		return nil, fmt.Errorf("form template has no date cell: %w", err)
	}
	dateField.SetText(DateStamp(generated))

	table, err := form.Table(mainTable)
	if err != nil {
		return nil, fmt.Errorf("form template has no COSHH table: %w", err)
	}

	first := records[0]
	firstRow, err := table.Row(templateRow)
	if err != nil {
		return nil, fmt.Errorf("form template has no template row: %w", err)
	}
	if err := fillIdentity(firstRow, first); err != nil {
		return nil, err
	}

	// The first row keeps the template's own tick cells.
	routes, measures := hazard.Classify(first.HazardText())
	logging.Debug("First row indicators not rendered",
		"document_id", id,
		"exposure_routes", routes,
		"control_measures", measures,
	)

	var ticks *docx.Document
	for i, record := range records[1:] {
		if ticks == nil {
			if ticks, err = a.openTicks(); err != nil {
				return nil, err
			}
		}
		if err := addRow(table, ticks, record); err != nil {
			return nil, fmt.Errorf("failed to add row for record %d: %w", i+1, err)
		}
	}

	data, err := form.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize COSHH document: %w", err)
	}

	logging.Info("COSHH document assembled",
		"document_id", id,
		"records", len(records),
		"bytes", len(data),
	)

	return newDocument(id, generated, len(records), data), nil
}

func (a *Assembler) openForm() (*docx.Document, error) {
	raw, err := a.templates.FormTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load form template: %w", err)
	}
	doc, err := docx.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to open form template: %w", err)
	}
	return doc, nil
}

func (a *Assembler) openTicks() (*docx.Document, error) {
	raw, err := a.templates.TicksTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load ticks template: %w", err)
	}
	doc, err := docx.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticks template: %w", err)
	}
	return doc, nil
}

// fillIdentity writes name, amount and hazard text into the leading cells
func fillIdentity(row *docx.Row, record ChemicalRecord) error {
	values := [...]string{
		nameCell:    record.Name,
		amountCell:  record.Amount,
		hazardsCell: record.HazardText(),
	}
	for i, v := range values {
		cell, err := row.Cell(i)
		if err != nil {
			return err
		}
		cell.SetText(v)
	}
	return nil
}

// addRow appends a copy of the template row for record, with tick glyphs
// copied from the ticks document
func addRow(table *docx.Table, ticks *docx.Document, record ChemicalRecord) error {
	routes, measures := hazard.Classify(record.HazardText())

	row, err := table.AppendRowCopy(templateRow)
	if err != nil {
		return err
	}
	if err := fillIdentity(row, record); err != nil {
		return err
	}

	if err := fillTicks(row, exposureCell, ticks, exposureTicksTable, routes[:]); err != nil {
		return fmt.Errorf("exposure ticks: %w", err)
	}
	if err := fillTicks(row, controlCell, ticks, controlTicksTable, measures[:]); err != nil {
		return fmt.Errorf("control ticks: %w", err)
	}
	return nil
}

// fillTicks clears the target cell and appends, for each indicator i, a copy
// of ticks table cell (i, indicator[i])
func fillTicks(row *docx.Row, cellIndex int, ticks *docx.Document, tableIndex int, indicators []int) error {
	target, err := row.Cell(cellIndex)
	if err != nil {
		return err
	}
	source, err := ticks.Table(tableIndex)
	if err != nil {
		return err
	}

	target.Clear()
	for i, v := range indicators {
		glyph, err := source.Cell(i, v)
		if err != nil {
			return err
		}
		target.AppendContent(glyph)
	}
	return nil
}
