// Package health provides health checking functionality for the COSHH API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/coshh-api/interfaces"
)

// staleReloads is how many reload intervals may pass without a successful
// reload before the templates are reported as stale
const staleReloads = 3

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	templates      interfaces.TemplateStore
	reloadInterval time.Duration
}

// NewHealthChecker creates a new health checker with injected dependencies.
// A zero reloadInterval disables the staleness check.
func NewHealthChecker(templates interfaces.TemplateStore, reloadInterval time.Duration) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		templates:      templates,
		reloadInterval: reloadInterval,
	}
}

// HealthCheck returns the service status, template details and the HTTP
// status the /health endpoint should answer with
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	loaded := h.templates.IsLoaded()
	lastUpdate := h.templates.GetLastUpdated()
	lastError := h.templates.GetLastError()
	isUpdating := h.templates.IsUpdating()

	templateAge := time.Since(lastUpdate)

	switch {
	case !loaded:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	// Still serving documents from the previous templates
	case lastError != "":
		status = "degraded"
		httpStatus = http.StatusOK

	case h.reloadInterval > 0 && templateAge > staleReloads*h.reloadInterval && !isUpdating:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"templates_loaded": loaded,
		"is_updating":      isUpdating,
	}
	if !lastUpdate.IsZero() {
		data["last_update"] = lastUpdate.Format(time.RFC3339)
		data["template_age_minutes"] = math.Round(templateAge.Minutes()*10) / 10
	}
	if lastError != "" {
		data["last_error"] = lastError
	}
	if start := h.templates.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = int64(time.Since(start).Seconds())
	}

	return status, data, httpStatus
}
