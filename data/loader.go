package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/giygas/coshh-api/docx"
	"github.com/giygas/coshh-api/validation"
)

// ReadTemplates reads both template files and checks that their layout
// matches what the assembler writes into
func ReadTemplates(formPath, ticksPath string) (form []byte, ticks []byte, err error) {
	form, err = readTemplate(formPath, validation.ValidateFormTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("form template: %w", err)
	}

	ticks, err = readTemplate(ticksPath, validation.ValidateTicksTemplate)
	if err != nil {
		return nil, nil, fmt.Errorf("ticks template: %w", err)
	}

	return form, ticks, nil
}

func readTemplate(path string, validate func(*docx.Document) error) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := docx.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := validate(doc); err != nil {
		return nil, fmt.Errorf("invalid layout in %s: %w", path, err)
	}

	return raw, nil
}

// LoadFromDisk reads and validates the templates and swaps them in. On
// failure the previously loaded templates stay in place and the error is
// recorded for health reporting.
func (tc *TemplateContainer) LoadFromDisk(formPath, ticksPath string) error {
	form, ticks, err := ReadTemplates(formPath, ticksPath)
	if err != nil {
		tc.SetLastError(err)
		return err
	}

	tc.UpdateTemplates(form, ticks)
	return nil
}
