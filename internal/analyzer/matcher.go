package analyzer

import (
	"sort"
	"strings"
)

const (
	keyCSP           = "content-security-policy"
	keyCSPReportOnly = "content-security-policy-report-only"
)

// headerAliases lists alternate header names accepted for a rule key.
// An alias only matches when the primary key is absent.
var headerAliases = map[string][]string{
	keyCSP: {keyCSPReportOnly},
}

// Match is the outcome of a successful header lookup.
type Match struct {
	// Name is the header name exactly as it appeared in the input map.
	Name  string
	Value string
	// ReportOnly is set when a CSP rule matched only the report-only variant.
	ReportOnly bool
}

// Find looks up key in headers, ignoring case on both sides. For the
// Content-Security-Policy key the report-only variant is also accepted.
func Find(headers map[string]string, key string) (Match, bool) {
	key = strings.ToLower(key)
	if name, ok := lookupName(headers, key); ok {
		return Match{Name: name, Value: headers[name]}, true
	}
	for _, alias := range headerAliases[key] {
		if name, ok := lookupName(headers, alias); ok {
			return Match{
				Name:       name,
				Value:      headers[name],
				ReportOnly: key == keyCSP && alias == keyCSPReportOnly,
			}, true
		}
	}
	return Match{}, false
}

// lookupName returns the original-cased name for key. If several names
// differ only by case, the lexicographically smallest wins so results do not
// depend on map iteration order.
func lookupName(headers map[string]string, key string) (string, bool) {
	var candidates []string
	for name := range headers {
		if strings.EqualFold(name, key) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	sort.Strings(candidates)
	return candidates[0], true
}

// NormalizeHeaders returns a copy of headers with lowercased names. When two
// names collapse to the same key the value of the lexicographically smallest
// original name is kept.
func NormalizeHeaders(headers map[string]string) map[string]string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(headers))
	for _, name := range names {
		lower := strings.ToLower(name)
		if _, exists := out[lower]; exists {
			continue
		}
		out[lower] = headers[name]
	}
	return out
}
