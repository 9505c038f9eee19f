package analyzer

import (
	"sort"
	"strconv"
	"strings"
)

// TimingEntry is one metric of a Server-Timing header.
type TimingEntry struct {
	Name        string  `json:"name"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

// ServerTiming is a parsed Server-Timing header.
type ServerTiming struct {
	Entries []TimingEntry `json:"entries"`
	// Total is the sum of all durations in milliseconds.
	Total float64 `json:"total"`
}

// ParseServerTiming parses a Server-Timing header value such as
// `db;dur=53, app;dur=47.2;desc="Render"`. Entries are returned sorted by
// duration, longest first. Metrics without dur= count as zero.
func ParseServerTiming(value string) ServerTiming {
	var st ServerTiming
	for _, metric := range splitOutsideQuotes(value, ',') {
		params := splitOutsideQuotes(metric, ';')
		name := strings.TrimSpace(params[0])
		if name == "" {
			continue
		}
		entry := TimingEntry{Name: name, Description: name}
		for _, p := range params[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			switch strings.ToLower(strings.TrimSpace(k)) {
			case "dur":
				if d, err := strconv.ParseFloat(v, 64); err == nil && d >= 0 {
					entry.Duration = d
				}
			case "desc":
				if desc := strings.Trim(v, `"`); desc != "" {
					entry.Description = desc
				}
			}
		}
		st.Entries = append(st.Entries, entry)
		st.Total += entry.Duration
	}
	sort.SliceStable(st.Entries, func(i, j int) bool {
		return st.Entries[i].Duration > st.Entries[j].Duration
	})
	return st
}

func splitOutsideQuotes(s string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	quoted := false
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case r == sep && !quoted:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(parts, cur.String())
}
