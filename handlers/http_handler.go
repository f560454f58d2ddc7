// Package handlers provides the HTTP request handlers of the COSHH API:
// document generation, hazard classification preview, PubChem lookups and
// the health endpoint.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/coshh-api/coshh"
	"github.com/giygas/coshh-api/hazard"
	"github.com/giygas/coshh-api/interfaces"
	"github.com/giygas/coshh-api/logging"
	"github.com/giygas/coshh-api/metrics"
	"github.com/giygas/coshh-api/pubchem"
)

const (
	msgNoData           = "No data received"
	msgMissingChemical  = "Missing chemical parameter"
	msgMissingHazards   = "Missing hazards"
	msgRequestTooLarge  = "Request body too large"
	searchKindExact     = "exact"
	searchKindPartial   = "partial"
	searchKindGeneral   = "general"
	documentIDHeader    = "X-Document-ID"
	contentDisposition  = "Content-Disposition"
	attachmentFormat    = "attachment; filename=%s"
)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	assembler interfaces.DocumentAssembler
	lookup    interfaces.ChemicalLookup
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	assembler interfaces.DocumentAssembler,
	lookup interfaces.ChemicalLookup,
	validator interfaces.InputValidator,
	health interfaces.HealthChecker,
) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		assembler: assembler,
		lookup:    lookup,
		validator: validator,
		health:    health,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response of the form {"error": message}
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	h.RespondWithJSON(w, code, map[string]string{"error": message})
}

// decodeBody decodes the JSON request body into v. It reports whether the
// body was too large so callers can answer 413 instead of 400.
func decodeBody(r *http.Request, v any) (tooLarge bool, err error) {
	if r.Body == nil {
		return false, errors.New("empty body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		return errors.As(err, &maxBytesErr), err
	}
	return false, nil
}

// ProcessGHSData generates a COSHH document from a JSON array of chemical
// records and returns it as an attachment
func (h *HTTPHandlerImpl) ProcessGHSData(w http.ResponseWriter, r *http.Request) {
	var records []coshh.ChemicalRecord
	if tooLarge, err := decodeBody(r, &records); err != nil {
		if tooLarge {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, msgRequestTooLarge)
			return
		}
		logging.Warn("Invalid GHS data payload", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, msgNoData)
		return
	}
	if len(records) == 0 {
		h.RespondWithError(w, http.StatusBadRequest, msgNoData)
		return
	}

	if err := h.validator.ValidateRecords(records); err != nil {
		logging.Warn("Rejected GHS data payload", "error", err, "records", len(records))
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	doc, err := h.assembler.Assemble(records)
	if err != nil {
		logging.Error("Error processing GHS data", "error", err, "records", len(records))
		h.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.DocumentAssemblyDuration.Observe(time.Since(start).Seconds())
	metrics.DocumentsGenerated.Inc()
	metrics.ChemicalsProcessed.Add(float64(len(records)))

	w.Header().Set(contentDisposition, fmt.Sprintf(attachmentFormat, doc.Filename))
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set(documentIDHeader, doc.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		logging.Warn("Failed to write document", "error", err, "document_id", doc.ID)
	}
}

type classifyRequest struct {
	Hazards []string `json:"hazards"`
}

// ClassifyResponse previews what the form will tick for a set of hazard
// statements
type ClassifyResponse struct {
	Codes           []int                  `json:"codes"`
	ExposureRoutes  hazard.ExposureRoutes  `json:"exposure_routes"`
	ControlMeasures hazard.ControlMeasures `json:"control_measures"`
	Exposure        map[string]bool        `json:"exposure"`
	Controls        map[string]bool        `json:"controls"`
}

// ClassifyHazards returns the exposure routes and control measures derived
// from {"hazards": [...]}
func (h *HTTPHandlerImpl) ClassifyHazards(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if tooLarge, err := decodeBody(r, &req); err != nil {
		if tooLarge {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, msgRequestTooLarge)
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, msgNoData)
		return
	}
	if len(req.Hazards) == 0 {
		h.RespondWithError(w, http.StatusBadRequest, msgMissingHazards)
		return
	}

	record := coshh.ChemicalRecord{Hazards: req.Hazards}
	if err := h.validator.ValidateRecords([]coshh.ChemicalRecord{record}); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	text := record.HazardText()
	exposure, controls := hazard.Classify(text)
	exposureNames, controlNames := hazard.Matches(text)

	codes := hazard.SortedCodes(text)
	if codes == nil {
		codes = []int{}
	}

	h.RespondWithJSON(w, http.StatusOK, ClassifyResponse{
		Codes:           codes,
		ExposureRoutes:  exposure,
		ControlMeasures: controls,
		Exposure:        exposureNames,
		Controls:        controlNames,
	})
}

// chemicalParam extracts and validates the chemical query parameter. It
// writes the error response itself and returns false when the request
// cannot proceed.
func (h *HTTPHandlerImpl) chemicalParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	chemical := strings.TrimSpace(r.URL.Query().Get("chemical"))
	if chemical == "" {
		h.RespondWithError(w, http.StatusBadRequest, msgMissingChemical)
		return "", false
	}
	if err := h.validator.ValidateChemicalQuery(chemical); err != nil {
		logging.Warn("Unusual user input", "chemical", chemical, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return chemical, true
}

// lookupFailed logs an upstream failure and answers 500 with message
func (h *HTTPHandlerImpl) lookupFailed(w http.ResponseWriter, kind, chemical, message string, err error) {
	metrics.UpstreamLookups.WithLabelValues(kind, metrics.OutcomeError).Inc()

	attrs := []any{"kind", kind, "chemical", chemical, "error", err}
	var upstream *pubchem.UpstreamError
	if errors.As(err, &upstream) {
		attrs = append(attrs, "upstream_status", upstream.StatusCode)
	}
	logging.Error(message, attrs...)

	h.RespondWithError(w, http.StatusInternalServerError, message)
}

// writeRawJSON passes an upstream JSON payload through unchanged
func (h *HTTPHandlerImpl) writeRawJSON(w http.ResponseWriter, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// ExactSearch looks up the PubChem CIDs of an exact compound name
func (h *HTTPHandlerImpl) ExactSearch(w http.ResponseWriter, r *http.Request) {
	chemical, ok := h.chemicalParam(w, r)
	if !ok {
		return
	}

	payload, err := h.lookup.ExactSearch(r.Context(), chemical)
	if err != nil {
		h.lookupFailed(w, searchKindExact, chemical, "Error fetching exact search results", err)
		return
	}

	metrics.UpstreamLookups.WithLabelValues(searchKindExact, metrics.OutcomeSuccess).Inc()
	h.writeRawJSON(w, payload)
}

// PartialSearch looks up the PubChem CIDs of compounds matching every word
// of the name
func (h *HTTPHandlerImpl) PartialSearch(w http.ResponseWriter, r *http.Request) {
	chemical, ok := h.chemicalParam(w, r)
	if !ok {
		return
	}

	payload, err := h.lookup.PartialSearch(r.Context(), chemical)
	if err != nil {
		h.lookupFailed(w, searchKindPartial, chemical, "Error fetching partial search results", err)
		return
	}

	metrics.UpstreamLookups.WithLabelValues(searchKindPartial, metrics.OutcomeSuccess).Inc()
	h.writeRawJSON(w, payload)
}

// GeneralSearch lists the compounds found by the NCBI compound search
func (h *HTTPHandlerImpl) GeneralSearch(w http.ResponseWriter, r *http.Request) {
	chemical, ok := h.chemicalParam(w, r)
	if !ok {
		return
	}

	results, err := h.lookup.GeneralSearch(r.Context(), chemical)
	if err != nil {
		h.lookupFailed(w, searchKindGeneral, chemical, "Error fetching general search results", err)
		return
	}
	if results == nil {
		results = []pubchem.GeneralResult{}
	}

	metrics.UpstreamLookups.WithLabelValues(searchKindGeneral, metrics.OutcomeSuccess).Inc()
	h.RespondWithJSON(w, http.StatusOK, map[string]any{"results": results})
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.health.HealthCheck()
	h.RespondWithJSON(w, httpStatus, HealthResponse{Status: status, Data: data})
}
