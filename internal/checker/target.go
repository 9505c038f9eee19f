package checker

import (
	"fmt"
	"net/url"
	"strings"

	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// NormalizeURL turns user input into the canonical https URL that is
// fetched and stored. It accepts these forms:
//   - example.com
//   - http://example.com/
//   - https://example.com:8443/path
//
// Any scheme is replaced by https and trailing slashes are removed. The
// host must contain a dot or be localhost.
func NormalizeURL(raw string) (string, error) {
	target := strings.TrimSpace(raw)
	if target == "" {
		return "", fmt.Errorf("%w: %w", sharedErrors.ErrInvalidURL, sharedErrors.ErrEmptyURL)
	}

	if i := strings.Index(target, "://"); i >= 0 {
		target = target[i+3:]
	}
	target = strings.TrimRight(target, "/")
	if target == "" {
		return "", fmt.Errorf("%w: %q has no host", sharedErrors.ErrInvalidURL, raw)
	}

	normalized := "https://" + target
	parsed, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrInvalidURL, err)
	}

	host := parsed.Hostname()
	if host == "" || strings.ContainsAny(host, " \t") {
		return "", fmt.Errorf("%w: %q has no valid host", sharedErrors.ErrInvalidURL, raw)
	}
	if !strings.Contains(host, ".") && !strings.EqualFold(host, "localhost") {
		return "", fmt.Errorf("%w: %q is not a domain name", sharedErrors.ErrInvalidURL, host)
	}
	if strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return "", fmt.Errorf("%w: %q is not a domain name", sharedErrors.ErrInvalidURL, host)
	}

	return normalized, nil
}

// ExtractHost returns the hostname of a normalized or raw target.
func ExtractHost(target string) string {
	normalized, err := NormalizeURL(target)
	if err != nil {
		return ""
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
