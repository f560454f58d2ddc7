package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/coshh-api/config"
)

// mockHandler records which endpoint served the request
type mockHandler struct {
	called string
}

func (m *mockHandler) serve(name string, w http.ResponseWriter) {
	m.called = name
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(name))
}

func (m *mockHandler) ProcessGHSData(w http.ResponseWriter, r *http.Request) {
	m.serve("processGHSData", w)
}

func (m *mockHandler) ClassifyHazards(w http.ResponseWriter, r *http.Request) {
	m.serve("classifyHazards", w)
}

func (m *mockHandler) ExactSearch(w http.ResponseWriter, r *http.Request) {
	m.serve("exactSearch", w)
}

func (m *mockHandler) PartialSearch(w http.ResponseWriter, r *http.Request) {
	m.serve("partialSearch", w)
}

func (m *mockHandler) GeneralSearch(w http.ResponseWriter, r *http.Request) {
	m.serve("generalSearch", w)
}

func (m *mockHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	m.serve("health", w)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8080",
		Address:         "127.0.0.1",
		Env:             config.EnvTest,
		MaxRequestBody:  1048576,
		MaxHeaderSize:   1048576,
		UpstreamTimeout: 10 * time.Second,
		AllowedOrigins:  []string{"https://coshh.example.org"},
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{"POST", "/api/processGHSData", "processGHSData"},
		{"POST", "/api/classifyHazards", "classifyHazards"},
		{"GET", "/api/exactSearch?chemical=acetone", "exactSearch"},
		{"GET", "/api/partialSearch?chemical=acetone", "partialSearch"},
		{"GET", "/api/generalSearch?chemical=acetone", "generalSearch"},
		{"GET", "/health", "health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			handler := &mockHandler{}
			srv := NewServer(testConfig(), handler)

			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, strings.NewReader("[]")))

			if rr.Code != http.StatusOK {
				t.Errorf("Expected 200, got %d", rr.Code)
			}
			if handler.called != tt.expected {
				t.Errorf("Expected %s handler, got %q", tt.expected, handler.called)
			}
			if rr.Header().Get("X-RateLimit-Limit") == "" {
				t.Error("rate limit headers should be set")
			}
		})
	}
}

func TestRouteMethodAndNotFound(t *testing.T) {
	srv := NewServer(testConfig(), &mockHandler{})

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/processGHSData", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET on the document endpoint, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/api/unknown", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(testConfig(), &mockHandler{})

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "coshh_documents_generated_total") {
		t.Error("metrics output should include the document counter")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := NewServer(testConfig(), &mockHandler{})

	req := httptest.NewRequest("OPTIONS", "/api/processGHSData", nil)
	req.Header.Set("Origin", "https://coshh.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://coshh.example.org" {
		t.Errorf("Expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest("POST", "/api/processGHSData", strings.NewReader("[]"))
	req.Header.Set("Origin", "https://coshh.example.org")
	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if exposed := rr.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(exposed, "Content-Disposition") {
		t.Errorf("Content-Disposition should be exposed, got %q", exposed)
	}
}

func TestRedirectSlashes(t *testing.T) {
	srv := NewServer(testConfig(), &mockHandler{})

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/health/", nil))

	if rr.Code != http.StatusMovedPermanently {
		t.Errorf("Expected 301, got %d", rr.Code)
	}
}

func TestWriteTimeoutCoversUpstream(t *testing.T) {
	cfg := testConfig()
	cfg.UpstreamTimeout = 30 * time.Second
	srv := NewServer(cfg, &mockHandler{})

	if srv.server.WriteTimeout != 35*time.Second {
		t.Errorf("Expected write timeout 35s, got %v", srv.server.WriteTimeout)
	}
	if srv.server.Addr != "127.0.0.1:8080" {
		t.Errorf("unexpected address %s", srv.server.Addr)
	}
}

func TestStartAndShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	srv := NewServer(cfg, &mockHandler{})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Start() returned %v after graceful shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Start() did not return after shutdown")
	}
}
