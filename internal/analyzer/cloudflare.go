package analyzer

import "github.com/khanhnv2901/hdrscan/internal/catalog"

// CloudflareResult reports which Cloudflare indicator headers were seen.
// It never contributes to the overall score.
type CloudflareResult struct {
	IsUsingCloudflare bool              `json:"isUsingCloudflare"`
	Total             int               `json:"total"`
	Implemented       int               `json:"implemented"`
	Details           []EvaluatedHeader `json:"details"`
}

// EvaluateCloudflare checks headers against the cloudflare indicator rules.
func (e *Evaluator) EvaluateCloudflare(headers map[string]string) CloudflareResult {
	// The cloudflare category is always present in categoryMatchers.
	res, _ := e.Evaluate(catalog.CategoryCloudflare, headers)
	return CloudflareResult{
		IsUsingCloudflare: res.Implemented > 0,
		Total:             res.Total,
		Implemented:       res.Implemented,
		Details:           res.Details,
	}
}
