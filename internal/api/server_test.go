package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/memory"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

type fakeFetcher struct {
	headers map[string]string
	err     error
}

func (f fakeFetcher) FetchHeaders(context.Context, string) (map[string]string, error) {
	return f.headers, f.err
}

func newTestServer(t *testing.T, fetcher fakeFetcher, mutate ...func(*Config)) *Server {
	t.Helper()
	svc := scanapp.NewService(memory.NewRepository(), fetcher, analyzer.NewEvaluator(catalog.Default()), nil)
	cfg := Config{Scans: svc, Logger: zaptest.NewLogger(t), HistoryLimit: 10}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewServer(cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("expected application/json content-type, got %s", got)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestWriteErrorInternal(t *testing.T) {
	s := &Server{cfg: Config{Logger: zaptest.NewLogger(t)}}

	rr := httptest.NewRecorder()
	s.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusInternalServerError, errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("expected sanitized message, got %s", rr.Body.String())
	}
}

func TestWriteErrorClient(t *testing.T) {
	s := &Server{}
	rr := httptest.NewRecorder()
	s.writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, errors.New("bad input"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "bad input") {
		t.Fatalf("expected original error message, got %s", rr.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", sharedErrors.ErrInvalidURL), http.StatusBadRequest},
		{sharedErrors.ErrScanNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: dial", sharedErrors.ErrFetchFailed), http.StatusBadGateway},
		{fmt.Errorf("%w: slow.example: %w", sharedErrors.ErrFetchFailed, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{sharedErrors.ErrEvaluation, http.StatusInternalServerError},
		{errors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{headers: map[string]string{
		"X-Frame-Options": "DENY",
		"Server":          "cloudflare",
	}})

	rr := do(t, srv, http.MethodPost, "/api/v1/analyze", `{"url":"example.com"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	for _, key := range []string{"scan", "securityHeaders", "performanceHeaders", "maintainabilityHeaders", "cloudflareHeaders", "isUsingCloudflare", "summary"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "true", string(body["isUsingCloudflare"]))

	var rec struct {
		ID                         int64  `json:"id"`
		URL                        string `json:"url"`
		ImplementedSecurityHeaders int    `json:"implementedSecurityHeaders"`
	}
	require.NoError(t, json.Unmarshal(body["scan"], &rec))
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Equal(t, 1, rec.ImplementedSecurityHeaders)

	// Response carries the API's own hardening headers.
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestAnalyzeEndpoint_Errors(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{err: fmt.Errorf("%w: refused", sharedErrors.ErrFetchFailed)})

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/analyze", `{"url":"nodot"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/analyze", `{"url":`).Code)
	assert.Equal(t, http.StatusBadGateway, do(t, srv, http.MethodPost, "/api/analyze", `{"url":"example.com"}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodGet, "/api/v1/analyze", "").Code)
}

func TestScansEndpoints(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{headers: map[string]string{"ETag": `"x"`}})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/analyze", `{"url":"example.com"}`).Code)
	}

	rr := do(t, srv, http.MethodGet, "/api/v1/scans?url=example.com&limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/v1/scans?limit=zero", "").Code)

	rr = do(t, srv, http.MethodGet, "/api/v1/scans/2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"performanceHeaders"`)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/scans/42", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/scans/abc", "").Code)
}

func TestSelfCheck(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{})

	rr := do(t, srv, http.MethodGet, "/api/v1/self-check", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		AppName       string `json:"appName"`
		SecurityScore int    `json:"securityScore"`
		SecurityGrade string `json:"securityGrade"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, AppName, body.AppName)
	assert.Equal(t, 100, body.SecurityScore)
	assert.Equal(t, "A", body.SecurityGrade)
}

func TestHealthAndAuth(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{}, func(c *Config) { c.AuthToken = "s3cret" })

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/v1/health", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Auth-Token", "s3cret")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)
}

type failingHealth struct{}

func (failingHealth) Check(context.Context) error { return nil }
func (failingHealth) Ready(context.Context) error { return errors.New("store closed") }

func TestReadyFailure(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{}, func(c *Config) { c.Health = failingHealth{} })
	assert.Equal(t, http.StatusServiceUnavailable, do(t, srv, http.MethodGet, "/api/v1/ready", "").Code)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{}, func(c *Config) {
		c.RateLimit = 1
		c.RateBurst = 1
	})

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, srv, http.MethodGet, "/api/health", "").Code)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, fakeFetcher{}, func(c *Config) { c.CORSOrigins = []string{"https://app.example"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
