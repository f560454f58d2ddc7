package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/interfaces"
)

var (
	// Chemical names: letters (greek included), digits, spaces and the
	// punctuation used by IUPAC and trade names
	chemicalRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.\+',()\[\]:/′]+$`)

	// Substring checks, cheaper than regex for these
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onerror=", "onload=",
		"union select", "drop table", "delete from", "insert into",
		"$(", "${", "`", "../", "..\\", "%2e%2e", "file://",
		"{$ne:", "{$gt:", "{$where:",
	}
)

const (
	maxChemicalLength = 200
	maxChemicalWords  = 12
	maxFieldLength    = 2000
	maxHazards        = 100
)

// InputValidator implements interfaces.InputValidator
type InputValidator struct {
	maxRecords int
}

// NewInputValidator creates a validator accepting at most maxRecords records
// per document
func NewInputValidator(maxRecords int) interfaces.InputValidator {
	return &InputValidator{maxRecords: maxRecords}
}

// ValidateChemicalQuery checks a free-text chemical name used for lookups
func (v *InputValidator) ValidateChemicalQuery(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if utf8.RuneCountInString(input) > maxChemicalLength {
		return fmt.Errorf("input too long: maximum %d characters", maxChemicalLength)
	}

	if len(strings.Fields(input)) > maxChemicalWords {
		return fmt.Errorf("search query too complex: maximum %d words allowed", maxChemicalWords)
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("input contains potentially dangerous content")
		}
	}

	if !chemicalRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidateRecords checks a submitted batch. Empty fields are fine; the batch
// must not be empty and must stay within the size limits.
func (v *InputValidator) ValidateRecords(records []coshh.ChemicalRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no chemical records supplied")
	}

	if v.maxRecords > 0 && len(records) > v.maxRecords {
		return fmt.Errorf("too many chemicals: maximum %d per document, got %d", v.maxRecords, len(records))
	}

	for i, r := range records {
		if len(r.Name) > maxFieldLength || len(r.Amount) > maxFieldLength {
			return fmt.Errorf("chemical %d: name or amount too long", i+1)
		}
		if strings.IndexFunc(r.Name+r.Amount, isDisallowedControl) >= 0 {
			return fmt.Errorf("chemical %d: name or amount contains control characters", i+1)
		}
		if len(r.Hazards) > maxHazards {
			return fmt.Errorf("chemical %d: too many hazard statements (maximum %d)", i+1, maxHazards)
		}
		for _, h := range r.Hazards {
			if len(h) > maxFieldLength {
				return fmt.Errorf("chemical %d: hazard statement too long", i+1)
			}
			if strings.IndexFunc(h, isDisallowedControl) >= 0 {
				return fmt.Errorf("chemical %d: hazard statement contains control characters", i+1)
			}
		}
	}

	return nil
}

// isDisallowedControl matches control characters that cannot be written to
// the document XML
func isDisallowedControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
}
