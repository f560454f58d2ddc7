// Package data holds the COSHH templates in memory with atomic swaps, so
// template reloads never block or disturb in-flight document generation.
package data

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/giygas/coshh-api/interfaces"
	"github.com/giygas/coshh-api/logging"
)

// Compile-time check to ensure TemplateContainer implements TemplateStore
var _ interfaces.TemplateStore = (*TemplateContainer)(nil)

var ErrTemplatesNotLoaded = errors.New("COSHH templates are not loaded")

// TemplateContainer holds the raw template packages. The stored byte slices
// are never modified after UpdateTemplates; every consumer parses its own
// document tree from them.
type TemplateContainer struct {
	form            atomic.Value // []byte
	ticks           atomic.Value // []byte
	lastUpdated     atomic.Value // time.Time
	lastError       atomic.Value // string
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewTemplateContainer creates an empty container
func NewTemplateContainer() *TemplateContainer {
	tc := &TemplateContainer{}
	tc.form.Store([]byte(nil))
	tc.ticks.Store([]byte(nil))
	tc.lastUpdated.Store(time.Time{})
	tc.lastError.Store("")
	tc.serverStartTime.Store(time.Time{})
	return tc
}

func (tc *TemplateContainer) load(v *atomic.Value, name string) ([]byte, error) {
	if b, ok := v.Load().([]byte); ok && len(b) > 0 {
		return b, nil
	}
	logging.Warn("Template requested before it was loaded", "template", name)
	return nil, ErrTemplatesNotLoaded
}

// FormTemplate returns the form template package
func (tc *TemplateContainer) FormTemplate() ([]byte, error) {
	return tc.load(&tc.form, "form")
}

// TicksTemplate returns the ticks template package
func (tc *TemplateContainer) TicksTemplate() ([]byte, error) {
	return tc.load(&tc.ticks, "ticks")
}

// IsLoaded reports whether both templates are available
func (tc *TemplateContainer) IsLoaded() bool {
	form, _ := tc.form.Load().([]byte)
	ticks, _ := tc.ticks.Load().([]byte)
	return len(form) > 0 && len(ticks) > 0
}

// UpdateTemplates atomically replaces both templates and clears the last error
func (tc *TemplateContainer) UpdateTemplates(form, ticks []byte) {
	tc.form.Store(form)
	tc.ticks.Store(ticks)
	tc.lastUpdated.Store(time.Now())
	tc.lastError.Store("")
}

// GetLastUpdated returns when the templates were last replaced
func (tc *TemplateContainer) GetLastUpdated() time.Time {
	if t, ok := tc.lastUpdated.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// SetLastError records the outcome of a failed reload
func (tc *TemplateContainer) SetLastError(err error) {
	if err == nil {
		tc.lastError.Store("")
		return
	}
	tc.lastError.Store(err.Error())
}

// GetLastError returns the message of the last failed reload, if any
func (tc *TemplateContainer) GetLastError() string {
	s, _ := tc.lastError.Load().(string)
	return s
}

// IsUpdating returns true if a reload is currently in progress
func (tc *TemplateContainer) IsUpdating() bool {
	return tc.updating.Load()
}

// BeginUpdate marks the start of a reload.
// Returns false if another reload is in progress.
func (tc *TemplateContainer) BeginUpdate() bool {
	return tc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a reload
func (tc *TemplateContainer) EndUpdate() {
	tc.updating.Store(false)
}

// SetServerStartTime sets the server start time
func (tc *TemplateContainer) SetServerStartTime(startTime time.Time) {
	tc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (tc *TemplateContainer) GetServerStartTime() time.Time {
	if t, ok := tc.serverStartTime.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}
