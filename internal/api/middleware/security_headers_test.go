package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for name, want := range DefaultSecurityHeaders {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: expected %q, got %q", name, want, got)
		}
	}
	if etag := rec.Header().Get("ETag"); !strings.HasPrefix(etag, `W/"`) {
		t.Errorf("expected weak etag, got %q", etag)
	}
	if st := rec.Header().Get("Server-Timing"); !strings.HasPrefix(st, "app;dur=") {
		t.Errorf("expected server timing, got %q", st)
	}
}

func TestSecurityHeaders_ExplicitStatus(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
	if rec.Header().Get("Server-Timing") == "" {
		t.Error("expected server timing on explicit status")
	}
}

func TestWeakETagUnique(t *testing.T) {
	if weakETag() == weakETag() {
		t.Error("expected distinct etags")
	}
}
