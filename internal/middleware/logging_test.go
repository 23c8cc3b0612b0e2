package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte("hello"))
		}))
		req := httptest.NewRequest("GET", "/api/folders", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		if !strings.Contains(out, tt.level) {
			t.Errorf("status %d: log %q missing %s", tt.status, out, tt.level)
		}
		if !strings.Contains(out, "path=/api/folders") {
			t.Errorf("status %d: log %q missing path", tt.status, out)
		}
		if !strings.Contains(out, "bytes=5") {
			t.Errorf("status %d: log %q missing byte count", tt.status, out)
		}
		if strings.Contains(out, "user_id=") {
			t.Errorf("status %d: anonymous request logged a user: %q", tt.status, out)
		}
	}
}

func TestRequestLoggerRequestID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(slog.New(slog.NewTextHandler(&buf, nil)))(okHandler())

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("echoed request id = %q, want abc-123", got)
	}
	if !strings.Contains(buf.String(), "request_id=abc-123") {
		t.Errorf("log %q missing request id", buf.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if len(rec.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request id = %q, want a uuid", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestLoggerRecordsUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recordUser(r.Context(), "user-42")
		w.WriteHeader(http.StatusNoContent)
	})
	RequestLogger(logger)(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("DELETE", "/api/notes/n1", nil))

	if !strings.Contains(buf.String(), "user_id=user-42") {
		t.Errorf("log %q missing user_id", buf.String())
	}
}

func TestRecordUserWithoutLogger(t *testing.T) {
	// Handlers mounted without RequestLogger must not panic.
	recordUser(httptest.NewRequest("GET", "/", nil).Context(), "u1")
}

func TestStatusRecorderUnwrap(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: inner}
	if rec.Unwrap() != inner {
		t.Error("Unwrap did not return the wrapped writer")
	}
}
