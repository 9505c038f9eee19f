package analyzer

import (
	"fmt"
	"strings"

	"github.com/khanhnv2901/hdrscan/internal/catalog"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// Status is the per-scan outcome of one header rule.
type Status string

const (
	StatusMissing     Status = "missing"
	StatusImplemented Status = "implemented"
	StatusWarning     Status = "warning"
)

// EvaluatedHeader is a catalog rule combined with what the response carried.
type EvaluatedHeader struct {
	Name           string             `json:"name"`
	Key            string             `json:"key"`
	Implemented    bool               `json:"implemented"`
	Value          *string            `json:"value"`
	Status         Status             `json:"status"`
	Importance     catalog.Importance `json:"importance"`
	Description    string             `json:"description"`
	Recommendation string             `json:"recommendation,omitempty"`
	Link           string             `json:"link"`
	Category       catalog.Category   `json:"category"`
}

// ValueOrEmpty returns the header value or "" when the header was missing.
func (h EvaluatedHeader) ValueOrEmpty() string {
	if h.Value == nil {
		return ""
	}
	return *h.Value
}

// CategoryResult is the scored outcome of one category.
type CategoryResult struct {
	Category    catalog.Category  `json:"category"`
	Score       int               `json:"score"`
	Total       int               `json:"total"`
	Implemented int               `json:"implemented"`
	Details     []EvaluatedHeader `json:"details"`
}

// Grade returns the coarse letter grade of the category score.
func (r CategoryResult) Grade() string {
	return Grade(r.Score)
}

// MissingCritical returns the names of critical rules that were not found.
func (r CategoryResult) MissingCritical() []string {
	var names []string
	for _, h := range r.Details {
		if !h.Implemented && h.Importance == catalog.ImportanceCritical {
			names = append(names, h.Name)
		}
	}
	return names
}

// matchFunc decides whether a rule is satisfied by the header map.
type matchFunc func(rule catalog.Rule, headers map[string]string) (Match, bool)

// categoryMatchers is the exhaustive table of categories the evaluator
// understands. A category absent from this table is rejected.
var categoryMatchers = map[catalog.Category]matchFunc{
	catalog.CategorySecurity:        matchRule,
	catalog.CategoryPerformance:     matchRule,
	catalog.CategoryMaintainability: matchRule,
	catalog.CategoryCloudflare:      matchCloudflareIndicator,
}

func matchRule(rule catalog.Rule, headers map[string]string) (Match, bool) {
	return Find(headers, rule.Key)
}

// matchCloudflareIndicator treats the Server header as an indicator only
// when it names cloudflare. Every other indicator counts on presence.
func matchCloudflareIndicator(rule catalog.Rule, headers map[string]string) (Match, bool) {
	m, ok := Find(headers, rule.Key)
	if !ok {
		return Match{}, false
	}
	if rule.Key == "server" && !strings.Contains(strings.ToLower(m.Value), "cloudflare") {
		return Match{}, false
	}
	m.ReportOnly = false
	return m, true
}

// Evaluator scores header maps against a catalog. It holds no per-call
// state and is safe for concurrent use.
type Evaluator struct {
	catalog  catalog.Catalog
	refiners map[string]Refiner
}

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithRefiner registers (or replaces) the value check for a rule key.
func WithRefiner(key string, r Refiner) Option {
	return func(e *Evaluator) {
		e.refiners[strings.ToLower(key)] = r
	}
}

// WithoutRefiners disables every value check, so present headers are
// always reported as implemented.
func WithoutRefiners() Option {
	return func(e *Evaluator) {
		e.refiners = map[string]Refiner{}
	}
}

// NewEvaluator returns an evaluator bound to cat.
func NewEvaluator(cat catalog.Catalog, opts ...Option) *Evaluator {
	e := &Evaluator{
		catalog:  cat,
		refiners: defaultRefiners(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the evaluator scores against.
func (e *Evaluator) Catalog() catalog.Catalog {
	return e.catalog
}

// Evaluate applies every rule of category, in catalog order, to headers.
func (e *Evaluator) Evaluate(category catalog.Category, headers map[string]string) (CategoryResult, error) {
	match, ok := categoryMatchers[category]
	if !ok {
		return CategoryResult{}, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownCategory, category)
	}

	rules := e.catalog.Rules(category)
	result := CategoryResult{
		Category: category,
		Total:    len(rules),
		Details:  make([]EvaluatedHeader, 0, len(rules)),
	}
	for _, rule := range rules {
		h := e.evaluateRule(rule, headers, match)
		if h.Implemented {
			result.Implemented++
		}
		result.Details = append(result.Details, h)
	}
	result.Score = Percent(result.Implemented, result.Total)
	return result, nil
}

func (e *Evaluator) evaluateRule(rule catalog.Rule, headers map[string]string, match matchFunc) EvaluatedHeader {
	h := EvaluatedHeader{
		Name:           rule.Name,
		Key:            rule.Key,
		Status:         StatusMissing,
		Importance:     rule.Importance,
		Description:    rule.Description,
		Recommendation: rule.Recommendation,
		Link:           rule.Link,
		Category:       rule.Category,
	}

	m, ok := match(rule, headers)
	if !ok {
		return h
	}

	value := m.Value
	h.Implemented = true
	h.Value = &value
	h.Status = StatusImplemented

	if m.ReportOnly {
		h.Status = StatusWarning
		h.Recommendation = cspReportOnlyRecommendation
		return h
	}
	if refine, ok := e.refiners[rule.Key]; ok && refine != nil {
		if rec, warn := refine(value); warn {
			h.Status = StatusWarning
			h.Recommendation = rec
		}
	}
	return h
}

// Percent returns round(part/total*100) with halves rounded up.
// A zero total scores 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (2 * total)
}
