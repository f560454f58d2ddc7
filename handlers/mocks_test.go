package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/docx"
	"github.com/giygas/coshh-api/pubchem"
)

// ============================================================================
// MOCK ASSEMBLER
// ============================================================================

type MockAssembler struct {
	doc      *coshh.Document
	err      error
	calls    int
	received []coshh.ChemicalRecord
}

func (m *MockAssembler) Assemble(records []coshh.ChemicalRecord) (*coshh.Document, error) {
	m.calls++
	m.received = records
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

type MockAssemblerBuilder struct {
	assembler *MockAssembler
}

func NewMockAssemblerBuilder() *MockAssemblerBuilder {
	return &MockAssemblerBuilder{
		assembler: &MockAssembler{
			doc: &coshh.Document{
				ID:          "doc-1",
				Filename:    "COSHH_20240305143000.docx",
				ContentType: docx.ContentType,
				Rows:        1,
				Data:        []byte("PK-fake-docx"),
			},
		},
	}
}

func (b *MockAssemblerBuilder) WithError(err error) *MockAssemblerBuilder {
	b.assembler.err = err
	return b
}

func (b *MockAssemblerBuilder) Build() *MockAssembler {
	return b.assembler
}

// ============================================================================
// MOCK LOOKUP
// ============================================================================

type MockLookup struct {
	exact    json.RawMessage
	partial  json.RawMessage
	general  []pubchem.GeneralResult
	err      error
	lastTerm string
}

func (m *MockLookup) ExactSearch(ctx context.Context, chemical string) (json.RawMessage, error) {
	m.lastTerm = chemical
	return m.exact, m.err
}

func (m *MockLookup) PartialSearch(ctx context.Context, chemical string) (json.RawMessage, error) {
	m.lastTerm = chemical
	return m.partial, m.err
}

func (m *MockLookup) GeneralSearch(ctx context.Context, chemical string) ([]pubchem.GeneralResult, error) {
	m.lastTerm = chemical
	return m.general, m.err
}

type MockLookupBuilder struct {
	lookup *MockLookup
}

func NewMockLookupBuilder() *MockLookupBuilder {
	return &MockLookupBuilder{
		lookup: &MockLookup{
			exact:   json.RawMessage(`{"IdentifierList":{"CID":[180]}}`),
			partial: json.RawMessage(`{"IdentifierList":{"CID":[180,6581]}}`),
			general: []pubchem.GeneralResult{{CID: "180", Name: "Acetone"}},
		},
	}
}

func (b *MockLookupBuilder) WithGeneral(results []pubchem.GeneralResult) *MockLookupBuilder {
	b.lookup.general = results
	return b
}

func (b *MockLookupBuilder) WithError(err error) *MockLookupBuilder {
	b.lookup.err = err
	return b
}

func (b *MockLookupBuilder) Build() *MockLookup {
	return b.lookup
}

// ============================================================================
// MOCK VALIDATOR
// ============================================================================

type MockValidator struct {
	queryErr   error
	recordsErr error
}

func (m *MockValidator) ValidateChemicalQuery(input string) error {
	return m.queryErr
}

func (m *MockValidator) ValidateRecords(records []coshh.ChemicalRecord) error {
	return m.recordsErr
}

type MockValidatorBuilder struct {
	validator *MockValidator
}

func NewMockValidatorBuilder() *MockValidatorBuilder {
	return &MockValidatorBuilder{validator: &MockValidator{}}
}

func (b *MockValidatorBuilder) WithQueryError(msg string) *MockValidatorBuilder {
	b.validator.queryErr = errors.New(msg)
	return b
}

func (b *MockValidatorBuilder) WithRecordsError(msg string) *MockValidatorBuilder {
	b.validator.recordsErr = errors.New(msg)
	return b
}

func (b *MockValidatorBuilder) Build() *MockValidator {
	return b.validator
}

// ============================================================================
// MOCK HEALTH CHECKER
// ============================================================================

type MockHealthChecker struct {
	status     string
	data       map[string]any
	httpStatus int
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.data, m.httpStatus
}

func newHandler(assembler *MockAssembler, lookup *MockLookup, validator *MockValidator) *HTTPHandlerImpl {
	health := &MockHealthChecker{status: "healthy", data: map[string]any{}, httpStatus: 200}
	return NewHTTPHandler(assembler, lookup, validator, health).(*HTTPHandlerImpl)
}
