package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

// DefaultSecurityHeaders are set on every API response. The API serves
// JSON only, so the content security policy denies everything.
var DefaultSecurityHeaders = map[string]string{
	"Content-Security-Policy":      "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'",
	"X-XSS-Protection":             "0",
	"X-Frame-Options":              "DENY",
	"X-Content-Type-Options":       "nosniff",
	"Strict-Transport-Security":    "max-age=31536000; includeSubDomains; preload",
	"Referrer-Policy":              "strict-origin-when-cross-origin",
	"Permissions-Policy":           "camera=(), microphone=(), geolocation=(), interest-cohort=()",
	"Cross-Origin-Embedder-Policy": "require-corp",
	"Cross-Origin-Opener-Policy":   "same-origin",
	"Cross-Origin-Resource-Policy": "same-site",
	"Cache-Control":                "no-cache, no-store, must-revalidate",
	"Vary":                         "Accept-Encoding, Origin",
	"Accept-Ranges":                "bytes",
	"X-Powered-By":                 "hdrscan",
}

// SecurityHeaders sets DefaultSecurityHeaders, a weak ETag and a
// Server-Timing entry measuring handler time up to the first write.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range DefaultSecurityHeaders {
			h.Set(name, value)
		}
		h.Set("ETag", weakETag())

		next.ServeHTTP(&timingWriter{ResponseWriter: w, start: time.Now()}, r)
	})
}

// timingWriter stamps Server-Timing just before headers are sent.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(code int) {
	if !tw.wroteHeader {
		tw.wroteHeader = true
		elapsed := float64(time.Since(tw.start).Microseconds()) / 1000
		tw.Header().Set("Server-Timing", fmt.Sprintf("app;dur=%.1f", elapsed))
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports flushing.
func (tw *timingWriter) Flush() {
	if f, ok := tw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func weakETag() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf(`W/"%x"`, time.Now().UnixNano())
	}
	return `W/"` + hex.EncodeToString(b) + `"`
}
