package validation

import (
	"strings"
	"testing"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/docx"
	"github.com/giygas/coshh-api/docx/docxtest"
)

func mustOpen(t *testing.T, b []byte) *docx.Document {
	t.Helper()
	doc, err := docx.Open(b)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return doc
}

func TestValidateFormTemplate(t *testing.T) {
	tests := []struct {
		name    string
		doc     []byte
		wantErr string
	}{
		{"valid", docxtest.FormTemplate(), ""},
		{"too few tables", docxtest.Build(docxtest.Table{{"a"}}, docxtest.Table{{"b"}}), "at least 3 tables"},
		{"no date cell", docxtest.Build(
			docxtest.Table{{"a", "b"}},
			docxtest.Table{{"x"}},
			docxtest.Table{{"1", "2", "3", "4", "5"}, {"1", "2", "3", "4", "5"}},
		), "date cell"},
		{"no template row", docxtest.Build(
			docxtest.Table{{"", "", "", ""}, {"", "", "", ""}},
			docxtest.Table{{"x"}},
			docxtest.Table{{"1", "2", "3", "4", "5"}},
		), "at least 2 rows"},
		{"narrow template row", docxtest.Build(
			docxtest.Table{{"", "", "", ""}, {"", "", "", ""}},
			docxtest.Table{{"x"}},
			docxtest.Table{{"1", "2", "3", "4", "5"}, {"1", "2", "3"}},
		), "at least 5 cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormTemplate(mustOpen(t, tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTicksTemplate(t *testing.T) {
	fourRows := docxtest.Table{{"a", "b"}, {"a", "b"}, {"a", "b"}, {"a", "b"}}
	nineRows := append(append(docxtest.Table{}, fourRows...), fourRows...)
	nineRows = append(nineRows, []string{"a", "b"})

	tests := []struct {
		name    string
		doc     []byte
		wantErr string
	}{
		{"valid", docxtest.TicksTemplate(), ""},
		{"one table", docxtest.Build(fourRows), "needs 2 tables"},
		{"short exposure table", docxtest.Build(fourRows[:3], nineRows), "exposure ticks table"},
		{"short control table", docxtest.Build(fourRows, nineRows[:8]), "control ticks table"},
		{"single glyph column", docxtest.Build(docxtest.Table{{"a"}, {"a"}, {"a"}, {"a"}}, nineRows), "needs 2 cells"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTicksTemplate(mustOpen(t, tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChemicalQuery(t *testing.T) {
	v := NewInputValidator(10)

	valid := []string{
		"acetone",
		"Sulfuric acid",
		"2,4-dinitrophenol",
		"(R)-(+)-limonene",
		"N,N-dimethylformamide",
		"α-pinene",
		"sodium hydroxide 1 M",
		"copper(II) sulfate",
	}
	for _, input := range valid {
		if err := v.ValidateChemicalQuery(input); err != nil {
			t.Errorf("ValidateChemicalQuery(%q) unexpected error: %v", input, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		strings.Repeat("a", 201),
		"a b c d e f g h i j k l m",
		"<script>alert(1)</script>",
		"acetone; rm -rf /",
		"../../etc/passwd",
		"${jndi:ldap}",
		"drop table chemicals",
	}
	for _, input := range invalid {
		if err := v.ValidateChemicalQuery(input); err == nil {
			t.Errorf("ValidateChemicalQuery(%q) expected error", input)
		}
	}
}

func TestValidateRecords(t *testing.T) {
	v := NewInputValidator(2)

	tests := []struct {
		name    string
		records []coshh.ChemicalRecord
		wantErr bool
	}{
		{"empty batch", nil, true},
		{"missing fields are fine", []coshh.ChemicalRecord{{}}, false},
		{"at limit", []coshh.ChemicalRecord{{Name: "a"}, {Name: "b"}}, false},
		{"over limit", []coshh.ChemicalRecord{{}, {}, {}}, true},
		{"long name", []coshh.ChemicalRecord{{Name: strings.Repeat("x", 2001)}}, true},
		{"control character", []coshh.ChemicalRecord{{Hazards: []string{"H314\x00"}}}, true},
		{"newline in hazard", []coshh.ChemicalRecord{{Hazards: []string{"H314\nH290"}}}, false},
		{"too many hazards", []coshh.ChemicalRecord{{Hazards: make([]string, 101)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRecords(tt.records)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecords() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
