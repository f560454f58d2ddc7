// Package interfaces defines the core abstractions of the COSHH API so that
// handlers, scheduler and health checks can be tested in isolation.
package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/pubchem"
)

// TemplateStore gives thread-safe access to the preloaded COSHH templates.
// Returned byte slices are shared and must be treated as read-only.
type TemplateStore interface {
	FormTemplate() ([]byte, error)
	TicksTemplate() ([]byte, error)
	IsLoaded() bool
	GetLastUpdated() time.Time
	GetLastError() string
	IsUpdating() bool
	GetServerStartTime() time.Time

	UpdateTemplates(form, ticks []byte)
	LoadFromDisk(formPath, ticksPath string) error
	SetLastError(err error)
	BeginUpdate() bool
	EndUpdate()
}

// DocumentAssembler turns an ordered batch of chemical records into a COSHH
// document
type DocumentAssembler interface {
	Assemble(records []coshh.ChemicalRecord) (*coshh.Document, error)
}

// ChemicalLookup queries the public chemical databases for compound ids
type ChemicalLookup interface {
	ExactSearch(ctx context.Context, chemical string) (json.RawMessage, error)
	PartialSearch(ctx context.Context, chemical string) (json.RawMessage, error)
	GeneralSearch(ctx context.Context, chemical string) ([]pubchem.GeneralResult, error)
}

// Scheduler manages the template reload job
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the API endpoints
type HTTPHandler interface {
	ProcessGHSData(w http.ResponseWriter, r *http.Request)
	ClassifyHazards(w http.ResponseWriter, r *http.Request)
	ExactSearch(w http.ResponseWriter, r *http.Request)
	PartialSearch(w http.ResponseWriter, r *http.Request)
	GeneralSearch(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports service health
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator validates user input
type InputValidator interface {
	ValidateChemicalQuery(input string) error
	ValidateRecords(records []coshh.ChemicalRecord) error
}
