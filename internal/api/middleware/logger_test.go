package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-valuation/internal/api/middleware"
	"github.com/ndewijer/portfolio-valuation/internal/logging"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "info"},
		{"client error", http.StatusNotFound, "warn"},
		{"server error", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewWithOutput("debug", &buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/portfolio\n/forged", nil)
			w := httptest.NewRecorder()
			middleware.Logger(logger)(next).ServeHTTP(w, req)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
			}

			if entry["level"] != tt.wantLevel {
				t.Errorf("Expected level %q, got %v", tt.wantLevel, entry["level"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("Expected status %d, got %v", tt.status, entry["status"])
			}
			if entry["path"] != "/api/portfolio/forged" {
				t.Errorf("Expected sanitized path, got %v", entry["path"])
			}
			if entry["component"] != "http" {
				t.Errorf("Expected component 'http', got %v", entry["component"])
			}
		})
	}
}
