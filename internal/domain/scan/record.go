package scan

import (
	"sort"
	"time"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
)

// Record is the persisted snapshot of one analysis: the raw headers as
// received plus the flattened category and overall results. ID and
// Timestamp are assigned by the Repository on Save.
type Record struct {
	ID         int64             `json:"id"`
	URL        string            `json:"url"`
	Timestamp  time.Time         `json:"timestamp"`
	RawHeaders map[string]string `json:"rawHeaders"`

	SecurityScore        int `json:"securityScore"`
	PerformanceScore     int `json:"performanceScore"`
	MaintainabilityScore int `json:"maintainabilityScore"`
	OverallScore         int `json:"overallScore"`

	TotalSecurityHeaders              int `json:"totalSecurityHeaders"`
	ImplementedSecurityHeaders        int `json:"implementedSecurityHeaders"`
	TotalPerformanceHeaders           int `json:"totalPerformanceHeaders"`
	ImplementedPerformanceHeaders     int `json:"implementedPerformanceHeaders"`
	TotalMaintainabilityHeaders       int `json:"totalMaintainabilityHeaders"`
	ImplementedMaintainabilityHeaders int `json:"implementedMaintainabilityHeaders"`

	SecurityGrade        string `json:"securityGrade"`
	PerformanceGrade     string `json:"performanceGrade"`
	MaintainabilityGrade string `json:"maintainabilityGrade"`
	OverallGrade         string `json:"overallGrade"`
}

// CategorySummary is the flattened view of one scored category.
type CategorySummary struct {
	Score       int
	Total       int
	Implemented int
	Grade       string
}

type categoryField struct {
	get func(r *Record) CategorySummary
	set func(r *Record, s CategorySummary)
}

// categoryFields maps each scored category to its flattened record columns.
var categoryFields = map[catalog.Category]categoryField{
	catalog.CategorySecurity: {
		get: func(r *Record) CategorySummary {
			return CategorySummary{r.SecurityScore, r.TotalSecurityHeaders, r.ImplementedSecurityHeaders, r.SecurityGrade}
		},
		set: func(r *Record, s CategorySummary) {
			r.SecurityScore, r.TotalSecurityHeaders, r.ImplementedSecurityHeaders, r.SecurityGrade = s.Score, s.Total, s.Implemented, s.Grade
		},
	},
	catalog.CategoryPerformance: {
		get: func(r *Record) CategorySummary {
			return CategorySummary{r.PerformanceScore, r.TotalPerformanceHeaders, r.ImplementedPerformanceHeaders, r.PerformanceGrade}
		},
		set: func(r *Record, s CategorySummary) {
			r.PerformanceScore, r.TotalPerformanceHeaders, r.ImplementedPerformanceHeaders, r.PerformanceGrade = s.Score, s.Total, s.Implemented, s.Grade
		},
	},
	catalog.CategoryMaintainability: {
		get: func(r *Record) CategorySummary {
			return CategorySummary{r.MaintainabilityScore, r.TotalMaintainabilityHeaders, r.ImplementedMaintainabilityHeaders, r.MaintainabilityGrade}
		},
		set: func(r *Record, s CategorySummary) {
			r.MaintainabilityScore, r.TotalMaintainabilityHeaders, r.ImplementedMaintainabilityHeaders, r.MaintainabilityGrade = s.Score, s.Total, s.Implemented, s.Grade
		},
	},
}

// Category returns the flattened result of a scored category.
func (r *Record) Category(c catalog.Category) (CategorySummary, bool) {
	f, ok := categoryFields[c]
	if !ok {
		return CategorySummary{}, false
	}
	return f.get(r), true
}

// Clone returns a deep copy so callers cannot alias stored records.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.RawHeaders = make(map[string]string, len(r.RawHeaders))
	for k, v := range r.RawHeaders {
		cp.RawHeaders[k] = v
	}
	return &cp
}

// Build assembles a Record from one header snapshot and its evaluation.
// Header names are lowercased. ID and Timestamp stay zero.
func Build(url string, headers map[string]string, ev analyzer.Evaluation, overall analyzer.Overall) *Record {
	r := &Record{
		URL:          url,
		RawHeaders:   analyzer.NormalizeHeaders(headers),
		OverallScore: overall.Score,
		OverallGrade: overall.Grade,
	}
	for _, c := range catalog.ScoredCategories {
		res, _ := ev.Category(c)
		categoryFields[c].set(r, CategorySummary{
			Score:       res.Score,
			Total:       res.Total,
			Implemented: res.Implemented,
			Grade:       res.Grade(),
		})
	}
	return r
}

// SortedHeaderNames returns the raw header names in alphabetical order.
func (r *Record) SortedHeaderNames() []string {
	names := make([]string, 0, len(r.RawHeaders))
	for k := range r.RawHeaders {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
