package checker

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	consts "github.com/khanhnv2901/hdrscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// drainLimit caps how much of a GET body is read before closing.
const drainLimit = 64 << 10

// HTTPChecker fetches response headers from remote sites.
type HTTPChecker struct {
	Timeout   time.Duration
	UserAgent string

	// Client overrides the default client. Tests point it at httptest servers.
	Client *http.Client
}

// NewHTTPChecker returns a checker with the given timeout and user agent.
// Zero values fall back to the package defaults.
func NewHTTPChecker(timeout time.Duration, userAgent string) *HTTPChecker {
	if timeout <= 0 {
		timeout = consts.DefaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = consts.DefaultUserAgent
	}
	return &HTTPChecker{Timeout: timeout, UserAgent: userAgent}
}

// FetchHeaders returns the final response headers for target, following
// redirects. HEAD is tried first; GET is used when HEAD fails or the
// server rejects the method. Header names are lowercased and repeated
// values joined with ", ".
func (h *HTTPChecker) FetchHeaders(ctx context.Context, target string) (map[string]string, error) {
	client := h.client()

	// Try HEAD request first (safe, minimal side effects)
	resp, err := h.do(ctx, client, http.MethodHead, target)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		resp.Body.Close()
		err = fmt.Errorf("HEAD not allowed: %s", resp.Status)
	}
	if err != nil {
		// Fallback to GET (some servers disallow HEAD)
		resp2, err2 := h.do(ctx, client, http.MethodGet, target)
		if err2 != nil {
			return nil, fmt.Errorf("%w: %s: %w", sharedErrors.ErrFetchFailed, target, errors.Join(err, err2))
		}
		resp = resp2
	}
	defer resp.Body.Close()

	// Discard response body - ignore errors as this is just cleanup
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	return FlattenHeaders(resp.Header), nil
}

func (h *HTTPChecker) do(ctx context.Context, client *http.Client, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("User-Agent", h.userAgent())
	return client.Do(req)
}

func (h *HTTPChecker) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultFetchTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
			ForceAttemptHTTP2: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= consts.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", consts.MaxRedirects)
			}
			return nil
		},
	}
}

func (h *HTTPChecker) userAgent() string {
	if h.UserAgent == "" {
		return consts.DefaultUserAgent
	}
	return h.UserAgent
}

// FlattenHeaders converts an http.Header into a single-valued map with
// lowercase names.
func FlattenHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := strings.ToLower(name)
		value := strings.Join(header[name], ", ")
		if prev, ok := out[key]; ok {
			value = prev + ", " + value
		}
		out[key] = value
	}
	return out
}
