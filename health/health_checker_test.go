package health

import (
	"net/http"
	"testing"
	"time"
)

// MockTemplateStore for testing
type MockTemplateStore struct {
	loaded      bool
	lastUpdated time.Time
	lastError   string
	isUpdating  bool
	startTime   time.Time
}

func (m *MockTemplateStore) FormTemplate() ([]byte, error)  { return nil, nil }
func (m *MockTemplateStore) TicksTemplate() ([]byte, error) { return nil, nil }
func (m *MockTemplateStore) IsLoaded() bool                 { return m.loaded }
func (m *MockTemplateStore) GetLastUpdated() time.Time      { return m.lastUpdated }
func (m *MockTemplateStore) GetLastError() string           { return m.lastError }
func (m *MockTemplateStore) IsUpdating() bool               { return m.isUpdating }
func (m *MockTemplateStore) GetServerStartTime() time.Time  { return m.startTime }
func (m *MockTemplateStore) UpdateTemplates(form, ticks []byte) {}
func (m *MockTemplateStore) LoadFromDisk(formPath, ticksPath string) error { return nil }
func (m *MockTemplateStore) SetLastError(err error)             {}
func (m *MockTemplateStore) BeginUpdate() bool                  { return true }
func (m *MockTemplateStore) EndUpdate()                         {}

func TestNewHealthChecker(t *testing.T) {
	healthChecker := NewHealthChecker(&MockTemplateStore{}, time.Minute)

	if healthChecker == nil {
		t.Fatal("NewHealthChecker returned nil")
	}

	if _, ok := healthChecker.(*HealthCheckerImpl); !ok {
		t.Error("NewHealthChecker should return *HealthCheckerImpl")
	}
}

func TestHealthCheck(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		store      *MockTemplateStore
		interval   time.Duration
		wantStatus string
		wantHTTP   int
	}{
		{
			name:       "healthy",
			store:      &MockTemplateStore{loaded: true, lastUpdated: now.Add(-time.Minute)},
			interval:   10 * time.Minute,
			wantStatus: "healthy",
			wantHTTP:   http.StatusOK,
		},
		{
			name:       "templates missing",
			store:      &MockTemplateStore{loaded: false},
			interval:   10 * time.Minute,
			wantStatus: "unhealthy",
			wantHTTP:   http.StatusServiceUnavailable,
		},
		{
			name:       "last reload failed",
			store:      &MockTemplateStore{loaded: true, lastUpdated: now, lastError: "form template: bad zip"},
			interval:   10 * time.Minute,
			wantStatus: "degraded",
			wantHTTP:   http.StatusOK,
		},
		{
			name:       "stale templates",
			store:      &MockTemplateStore{loaded: true, lastUpdated: now.Add(-time.Hour)},
			interval:   10 * time.Minute,
			wantStatus: "degraded",
			wantHTTP:   http.StatusOK,
		},
		{
			name:       "stale but reloading",
			store:      &MockTemplateStore{loaded: true, lastUpdated: now.Add(-time.Hour), isUpdating: true},
			interval:   10 * time.Minute,
			wantStatus: "healthy",
			wantHTTP:   http.StatusOK,
		},
		{
			name:       "reload disabled",
			store:      &MockTemplateStore{loaded: true, lastUpdated: now.Add(-72 * time.Hour)},
			interval:   0,
			wantStatus: "healthy",
			wantHTTP:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, details, httpStatus := NewHealthChecker(tt.store, tt.interval).HealthCheck()

			if status != tt.wantStatus {
				t.Errorf("Expected status '%s', got '%s'", tt.wantStatus, status)
			}
			if httpStatus != tt.wantHTTP {
				t.Errorf("Expected HTTP %d, got %d", tt.wantHTTP, httpStatus)
			}
			if details["templates_loaded"] != tt.store.loaded {
				t.Errorf("templates_loaded = %v", details["templates_loaded"])
			}
		})
	}
}

func TestHealthCheckDetails(t *testing.T) {
	store := &MockTemplateStore{
		loaded:      true,
		lastUpdated: time.Now().Add(-30 * time.Minute),
		lastError:   "ticks template: missing",
		startTime:   time.Now().Add(-2 * time.Hour),
	}

	_, details, _ := NewHealthChecker(store, time.Hour).HealthCheck()

	for _, key := range []string{"last_update", "template_age_minutes", "last_error", "uptime_seconds", "is_updating"} {
		if _, ok := details[key]; !ok {
			t.Errorf("Details should contain '%s'", key)
		}
	}

	if age := details["template_age_minutes"].(float64); age < 29.9 || age > 31 {
		t.Errorf("unexpected template age %v", age)
	}
	if details["last_error"] != "ticks template: missing" {
		t.Errorf("unexpected last_error %v", details["last_error"])
	}
}

func TestHealthCheckOmitsUnknownTimes(t *testing.T) {
	_, details, _ := NewHealthChecker(&MockTemplateStore{}, time.Minute).HealthCheck()

	for _, key := range []string{"last_update", "template_age_minutes", "uptime_seconds", "last_error"} {
		if _, ok := details[key]; ok {
			t.Errorf("Details should not contain '%s' before anything loaded", key)
		}
	}
}
