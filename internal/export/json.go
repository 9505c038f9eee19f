package export

import (
	"encoding/json"
	"io"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
)

type jsonReport struct {
	Scan                   *scan.Record               `json:"scan"`
	SecurityHeaders        []analyzer.EvaluatedHeader `json:"securityHeaders"`
	PerformanceHeaders     []analyzer.EvaluatedHeader `json:"performanceHeaders"`
	MaintainabilityHeaders []analyzer.EvaluatedHeader `json:"maintainabilityHeaders"`
	CloudflareHeaders      []analyzer.EvaluatedHeader `json:"cloudflareHeaders"`
	IsUsingCloudflare      bool                       `json:"isUsingCloudflare"`
	Summary                string                     `json:"summary"`
	ServerTiming           *analyzer.ServerTiming     `json:"serverTiming,omitempty"`
}

func writeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Scan:                   r.Record,
		SecurityHeaders:        r.Evaluation.Security.Details,
		PerformanceHeaders:     r.Evaluation.Performance.Details,
		MaintainabilityHeaders: r.Evaluation.Maintainability.Details,
		CloudflareHeaders:      r.Evaluation.Cloudflare.Details,
		IsUsingCloudflare:      r.Evaluation.Cloudflare.IsUsingCloudflare,
		Summary:                r.Summary,
		ServerTiming:           r.ServerTiming,
	})
}
