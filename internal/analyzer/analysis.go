package analyzer

import (
	"github.com/khanhnv2901/hdrscan/internal/catalog"
)

// Evaluation bundles the results of every category for one header snapshot.
type Evaluation struct {
	Security        CategoryResult   `json:"securityHeaders"`
	Performance     CategoryResult   `json:"performanceHeaders"`
	Maintainability CategoryResult   `json:"maintainabilityHeaders"`
	Cloudflare      CloudflareResult `json:"cloudflare"`
}

// Category returns the result for a scored category.
func (ev Evaluation) Category(c catalog.Category) (CategoryResult, bool) {
	switch c {
	case catalog.CategorySecurity:
		return ev.Security, true
	case catalog.CategoryPerformance:
		return ev.Performance, true
	case catalog.CategoryMaintainability:
		return ev.Maintainability, true
	}
	return CategoryResult{}, false
}

// EvaluateAll runs the scored categories and Cloudflare detection.
func (e *Evaluator) EvaluateAll(headers map[string]string) (Evaluation, error) {
	var ev Evaluation
	targets := map[catalog.Category]*CategoryResult{
		catalog.CategorySecurity:        &ev.Security,
		catalog.CategoryPerformance:     &ev.Performance,
		catalog.CategoryMaintainability: &ev.Maintainability,
	}
	for _, c := range catalog.ScoredCategories {
		res, err := e.Evaluate(c, headers)
		if err != nil {
			return Evaluation{}, err
		}
		*targets[c] = res
	}
	ev.Cloudflare = e.EvaluateCloudflare(headers)
	return ev, nil
}

// Analyze evaluates headers and aggregates the scored categories.
func Analyze(e *Evaluator, a *Aggregator, headers map[string]string) (Evaluation, Overall, error) {
	ev, err := e.EvaluateAll(headers)
	if err != nil {
		return Evaluation{}, Overall{}, err
	}
	return ev, a.Aggregate(ev.Security, ev.Performance, ev.Maintainability), nil
}
