// Package validation checks template layouts and user input for the COSHH API.
package validation

import (
	"fmt"

	"github.com/giygas/coshh-api/docx"
)

// Layout the assembler relies on
const (
	formMinTables      = 3
	formDateRow        = 1
	formDateCell       = 3
	formMainTable      = 2
	formMainMinRows    = 2
	formTemplateRow    = 1
	formMainMinCells   = 5
	ticksExposureRows  = 4
	ticksControlRows   = 9
	ticksMinCellPerRow = 2
)

// ValidateFormTemplate checks the COSHH form layout: a metadata table with a
// date cell at row 1 cell 3, and a main table (index 2) whose row 1 has at
// least five cells
func ValidateFormTemplate(doc *docx.Document) error {
	tables := doc.Tables()
	if len(tables) < formMinTables {
		return fmt.Errorf("form needs at least %d tables, found %d", formMinTables, len(tables))
	}

	if _, err := tables[0].Cell(formDateRow, formDateCell); err != nil {
		return fmt.Errorf("metadata table has no date cell: %w", err)
	}

	main := tables[formMainTable]
	if n := len(main.Rows()); n < formMainMinRows {
		return fmt.Errorf("COSHH table needs at least %d rows, found %d", formMainMinRows, n)
	}
	row, _ := main.Row(formTemplateRow)
	if n := len(row.Cells()); n < formMainMinCells {
		return fmt.Errorf("COSHH template row needs at least %d cells, found %d", formMainMinCells, n)
	}

	return nil
}

// ValidateTicksTemplate checks the ticks layout: table 0 with one row per
// exposure route and table 1 with one row per control measure, each row
// holding the unchecked and checked glyph cells
func ValidateTicksTemplate(doc *docx.Document) error {
	tables := doc.Tables()
	if len(tables) < 2 {
		return fmt.Errorf("ticks document needs 2 tables, found %d", len(tables))
	}

	if err := validateTickTable(tables[0], ticksExposureRows); err != nil {
		return fmt.Errorf("exposure ticks table: %w", err)
	}
	if err := validateTickTable(tables[1], ticksControlRows); err != nil {
		return fmt.Errorf("control ticks table: %w", err)
	}

	return nil
}

func validateTickTable(table *docx.Table, minRows int) error {
	rows := table.Rows()
	if len(rows) < minRows {
		return fmt.Errorf("needs at least %d rows, found %d", minRows, len(rows))
	}
	for i := 0; i < minRows; i++ {
		if n := len(rows[i].Cells()); n < ticksMinCellPerRow {
			return fmt.Errorf("row %d needs %d cells, found %d", i, ticksMinCellPerRow, n)
		}
	}
	return nil
}
