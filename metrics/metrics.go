// Package metrics provides Prometheus metrics for the COSHH API.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics cover generated documents, processed chemicals, PubChem
// lookups and template reloads. All metrics are registered with the
// Prometheus default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	DocumentsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coshh_documents_generated_total",
			Help: "Total COSHH documents assembled",
		},
	)

	ChemicalsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coshh_chemicals_processed_total",
			Help: "Total chemical records written into COSHH documents",
		},
	)

	DocumentAssemblyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coshh_document_assembly_seconds",
			Help:    "Time spent assembling a COSHH document",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	UpstreamLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubchem_lookups_total",
			Help: "PubChem lookups by search kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	TemplateReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "template_reloads_total",
			Help: "Template reload attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DocumentsGenerated)
	prometheus.MustRegister(ChemicalsProcessed)
	prometheus.MustRegister(DocumentAssemblyDuration)
	prometheus.MustRegister(UpstreamLookups)
	prometheus.MustRegister(TemplateReloads)
}

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)
