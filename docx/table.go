package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Table wraps a w:tbl element
type Table struct {
	el *etree.Element
}

// Row wraps a w:tr element
type Row struct {
	el *etree.Element
}

// Cell wraps a w:tc element
type Cell struct {
	el *etree.Element
}

// Rows returns the rows of the table in order
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, el := range children(t.el, "tr") {
		rows = append(rows, &Row{el: el})
	}
	return rows
}

// Row returns the row at index i
func (t *Table) Row(i int) (*Row, error) {
	rows := t.Rows()
	if i < 0 || i >= len(rows) {
		return nil, fmt.Errorf("row %d out of range (table has %d)", i, len(rows))
	}
	return rows[i], nil
}

// Cell is a shortcut for t.Row(row) followed by Cell(col)
func (t *Table) Cell(row, col int) (*Cell, error) {
	r, err := t.Row(row)
	if err != nil {
		return nil, err
	}
	return r.Cell(col)
}

// AppendRowCopy deep-copies the row at index i and appends the copy as the
// last row of the table. The copy shares nothing with the original.
func (t *Table) AppendRowCopy(i int) (*Row, error) {
	src, err := t.Row(i)
	if err != nil {
		return nil, err
	}
	clone := src.el.Copy()
	t.el.AddChild(clone)
	return &Row{el: clone}, nil
}

// Cells returns the cells of the row in order
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, el := range children(r.el, "tc") {
		cells = append(cells, &Cell{el: el})
	}
	return cells
}

// Cell returns the cell at index i
func (r *Row) Cell(i int) (*Cell, error) {
	cells := r.Cells()
	if i < 0 || i >= len(cells) {
		return nil, fmt.Errorf("cell %d out of range (row has %d)", i, len(cells))
	}
	return cells[i], nil
}

// Text returns the cell text, one line per paragraph
func (c *Cell) Text() string {
	var paragraphs []string
	for _, p := range children(c.el, "p") {
		paragraphs = append(paragraphs, paragraphText(p))
	}
	return strings.Join(paragraphs, "\n")
}

// SetText replaces the cell content with a single paragraph holding s.
// Newlines become line breaks and tabs become tab characters.
func (c *Cell) SetText(s string) {
	c.Clear()
	p := c.el.CreateElement("w:p")
	r := p.CreateElement("w:r")

	var sb strings.Builder
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(sb.String())
		sb.Reset()
	}
	for _, ch := range s {
		switch ch {
		case '\n':
			flush()
			r.CreateElement("w:br")
		case '\t':
			flush()
			r.CreateElement("w:tab")
		case '\r':
		default:
			sb.WriteRune(ch)
		}
	}
	flush()
}

// Clear removes all content from the cell except its properties (w:tcPr)
func (c *Cell) Clear() {
	for _, child := range c.el.ChildElements() {
		if child.Space == "w" && child.Tag == "tcPr" {
			continue
		}
		c.el.RemoveChild(child)
	}
}

// AppendContent appends a deep copy of src's block content (paragraphs,
// nested tables) to the cell. src's cell properties are not copied.
func (c *Cell) AppendContent(src *Cell) {
	for _, child := range src.el.ChildElements() {
		if child.Space == "w" && child.Tag == "tcPr" {
			continue
		}
		c.el.AddChild(child.Copy())
	}
}

// Len reports how many block elements the cell holds
func (c *Cell) Len() int {
	n := 0
	for _, child := range c.el.ChildElements() {
		if child.Space != "w" || child.Tag != "tcPr" {
			n++
		}
	}
	return n
}

func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if child.Space != "w" {
				continue
			}
			switch child.Tag {
			case "t":
				sb.WriteString(child.Text())
			case "br", "cr":
				sb.WriteByte('\n')
			case "tab":
				sb.WriteByte('\t')
			case "r", "hyperlink", "ins", "smartTag", "fldSimple":
				walk(child)
			}
		}
	}
	walk(p)
	return sb.String()
}
