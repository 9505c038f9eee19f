package analyzer

import "strings"

// Refiner inspects the value of a present header. When warn is true the
// header is downgraded to StatusWarning and recommendation replaces the
// catalog remediation text.
type Refiner func(value string) (recommendation string, warn bool)

const cspReportOnlyRecommendation = "You're using Content-Security-Policy-Report-Only which only monitors violations. " +
	"Consider implementing the enforced Content-Security-Policy header for better security."

// defaultRefiners maps rule keys to their value checks.
func defaultRefiners() map[string]Refiner {
	return map[string]Refiner{
		"strict-transport-security": refineHSTS,
		keyCSP:                      refineCSP,
		"cache-control":             refineCacheControl,
		"content-type":              refineContentType,
	}
}

// refineHSTS flags policies that leave subdomains unprotected.
func refineHSTS(value string) (string, bool) {
	if !strings.Contains(strings.ToLower(value), "includesubdomains") {
		return "Update your HSTS header to include subdomains and preload: max-age=31536000; includeSubDomains; preload", true
	}
	return "", false
}

// refineCSP flags policies that re-enable inline script or eval.
func refineCSP(value string) (string, bool) {
	lower := strings.ToLower(value)
	if strings.Contains(lower, "unsafe-inline") || strings.Contains(lower, "unsafe-eval") {
		return "Avoid using 'unsafe-inline' and 'unsafe-eval' in your CSP as they undermine its security benefits", true
	}
	return "", false
}

// securityOnlyCachePolicies are valid cache policies that disable caching
// entirely. They protect sensitive responses but give no performance benefit.
var securityOnlyCachePolicies = map[string]struct{}{
	"no-store":                    {},
	"no-cache, no-store":          {},
	"private, no-cache, no-store": {},
}

func refineCacheControl(value string) (string, bool) {
	normalized := normalizeDirectives(value)
	if _, ok := securityOnlyCachePolicies[normalized]; ok {
		return "Your cache policy is security-focused. For static assets, consider a longer cache duration with versioned URLs for better performance", true
	}
	if !strings.Contains(normalized, "max-age") && !strings.Contains(normalized, "s-maxage") {
		return "Consider adding a max-age directive to your Cache-Control header for better caching", true
	}
	return "", false
}

func refineContentType(value string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(lower, "text/") && !strings.Contains(lower, "charset=") {
		return "Specify a character set in your Content-Type header for text-based resources", true
	}
	return "", false
}

// normalizeDirectives lowercases a comma-separated directive list and
// rewrites it with single ", " separators.
func normalizeDirectives(value string) string {
	parts := strings.Split(strings.ToLower(value), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
