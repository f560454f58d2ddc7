package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/coshh-api/docx"
	"github.com/giygas/coshh-api/docx/docxtest"
	"github.com/giygas/coshh-api/hazard"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemplates(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	form := filepath.Join(dir, "form.docx")
	ticks := filepath.Join(dir, "ticks.docx")
	if err := os.WriteFile(form, docxtest.FormTemplate(), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ticks, docxtest.TicksTemplate(), 0o644); err != nil {
		t.Fatal(err)
	}
	return form, ticks
}

func TestClassifyArgs(t *testing.T) {
	out, err := execute(t, "", "classify", "H314", "H290")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	var got classification
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.ExposureRoutes != (hazard.ExposureRoutes{1, 1, 0, 0}) {
		t.Errorf("unexpected exposure routes %v", got.ExposureRoutes)
	}
	if len(got.Codes) != 2 {
		t.Errorf("unexpected codes %v", got.Codes)
	}
}

func TestClassifyStdin(t *testing.T) {
	out, err := execute(t, "H225\nH336\n", "classify")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	var got classification
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Controls["flame"] || !got.Exposure["inhalation"] {
		t.Errorf("unexpected classification %+v", got)
	}
}

func TestTables(t *testing.T) {
	out, err := execute(t, "", "tables")
	if err != nil {
		t.Fatalf("tables failed: %v", err)
	}

	var got map[string][]hazard.Category
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if len(got["exposure"]) != 4 || len(got["control"]) != 7 {
		t.Errorf("unexpected table sizes: %d exposure, %d control", len(got["exposure"]), len(got["control"]))
	}
}

func TestGenerate(t *testing.T) {
	form, ticks := writeTemplates(t)
	output := filepath.Join(t.TempDir(), "out.docx")

	stdin := `[{"name":"Acetone","amount":"1 L","hazards":["H225","H319"]},{"name":"Ethanol","amount":"500 ml","hazards":["H225"]}]`
	out, err := execute(t, stdin, "generate", "--form", form, "--ticks", ticks, "-o", output)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "2 chemicals") {
		t.Errorf("unexpected output %q", out)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := docx.Open(raw)
	if err != nil {
		t.Fatalf("output is not a document: %v", err)
	}
	table, err := doc.Table(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows()) != 3 {
		t.Errorf("expected 3 rows, got %d", len(table.Rows()))
	}
}

func TestGenerateFromFile(t *testing.T) {
	form, ticks := writeTemplates(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "records.json")
	if err := os.WriteFile(input, []byte(`[{"name":"Water"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "single.docx")

	if _, err := execute(t, "", "generate", "-i", input, "--form", form, "--ticks", ticks, "-o", output); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	form, ticks := writeTemplates(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"empty batch", "[]", []string{"generate", "--form", form, "--ticks", ticks}},
		{"not json", "hello", []string{"generate", "--form", form, "--ticks", ticks}},
		{"too many records", `[{},{}]`, []string{"generate", "--form", form, "--ticks", ticks, "--max-records", "1"}},
		{"missing template", `[{}]`, []string{"generate", "--form", filepath.Join(t.TempDir(), "nope.docx"), "--ticks", ticks}},
		{"missing input file", "", []string{"generate", "-i", filepath.Join(t.TempDir(), "nope.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.stdin, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
