package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/checker"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	"github.com/khanhnv2901/hdrscan/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// HeaderFetcher retrieves the response headers of a URL.
type HeaderFetcher interface {
	FetchHeaders(ctx context.Context, url string) (map[string]string, error)
}

// ProtocolDetector reports the HTTP version a URL negotiates.
type ProtocolDetector interface {
	DetectProtocol(ctx context.Context, url string) (checker.ProtocolInfo, error)
}

// Analysis is the full outcome of analyzing one header snapshot.
type Analysis struct {
	Scan                   *scan.Record               `json:"scan"`
	SecurityHeaders        []analyzer.EvaluatedHeader `json:"securityHeaders"`
	PerformanceHeaders     []analyzer.EvaluatedHeader `json:"performanceHeaders"`
	MaintainabilityHeaders []analyzer.EvaluatedHeader `json:"maintainabilityHeaders"`
	CloudflareHeaders      []analyzer.EvaluatedHeader `json:"cloudflareHeaders"`
	IsUsingCloudflare      bool                       `json:"isUsingCloudflare"`
	Summary                string                     `json:"summary"`
	HTTPProtocol           *checker.ProtocolInfo      `json:"httpProtocol,omitempty"`
	ServerTiming           *analyzer.ServerTiming     `json:"serverTiming,omitempty"`

	Evaluation analyzer.Evaluation `json:"-"`
	Overall    analyzer.Overall    `json:"-"`
}

// Service runs the analysis pipeline: fetch, evaluate, aggregate, record.
type Service struct {
	repo       scan.Repository
	fetcher    HeaderFetcher
	protocol   ProtocolDetector
	evaluator  *analyzer.Evaluator
	aggregator *analyzer.Aggregator
	logger     *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithProtocolDetector enables informational protocol detection.
func WithProtocolDetector(d ProtocolDetector) Option {
	return func(s *Service) { s.protocol = d }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new scan service
func NewService(
	repo scan.Repository,
	fetcher HeaderFetcher,
	evaluator *analyzer.Evaluator,
	aggregator *analyzer.Aggregator,
	opts ...Option,
) *Service {
	if aggregator == nil {
		aggregator = analyzer.NewAggregator(nil)
	}
	s := &Service{
		repo:       repo,
		fetcher:    fetcher,
		evaluator:  evaluator,
		aggregator: aggregator,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluator returns the evaluator used by the pipeline.
func (s *Service) Evaluator() *analyzer.Evaluator {
	return s.evaluator
}

// Analyze normalizes rawURL, fetches its headers, scores them and stores
// the resulting record.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*Analysis, error) {
	url, err := checker.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	headers, err := s.fetcher.FetchHeaders(ctx, url)
	if err != nil {
		s.logger.Warn("header fetch failed", zap.String("url", url), zap.Error(err))
		if !errors.Is(err, sharedErrors.ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", sharedErrors.ErrFetchFailed, err)
		}
		return nil, err
	}
	s.logger.Debug("headers received", zap.String("url", url), zap.Int("count", len(headers)))

	analysis, err := s.Evaluate(url, headers)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, analysis.Scan)
	if err != nil {
		s.logger.Error("failed to record scan", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to save scan: %w", err)
	}
	analysis.Scan = saved
	s.logger.Info("scan recorded",
		zap.Int64("id", saved.ID),
		zap.String("url", url),
		zap.Int("overall_score", saved.OverallScore),
		zap.String("overall_grade", saved.OverallGrade),
	)

	if s.protocol != nil {
		info, err := s.protocol.DetectProtocol(ctx, url)
		if err != nil {
			s.logger.Debug("protocol detection failed", zap.String("url", url), zap.Error(err))
		} else {
			analysis.HTTPProtocol = &info
		}
	}

	return analysis, nil
}

// Evaluate scores a header snapshot without fetching or storing anything.
// The returned record has no ID or timestamp.
func (s *Service) Evaluate(url string, headers map[string]string) (*Analysis, error) {
	ev, overall, err := analyzer.Analyze(s.evaluator, s.aggregator, headers)
	if err != nil {
		s.logger.Error("header evaluation failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrEvaluation, err)
	}

	analysis := &Analysis{
		Scan:                   scan.Build(url, headers, ev, overall),
		SecurityHeaders:        ev.Security.Details,
		PerformanceHeaders:     ev.Performance.Details,
		MaintainabilityHeaders: ev.Maintainability.Details,
		CloudflareHeaders:      ev.Cloudflare.Details,
		IsUsingCloudflare:      ev.Cloudflare.IsUsingCloudflare,
		Summary:                overall.Summary,
		Evaluation:             ev,
		Overall:                overall,
	}

	if m, ok := analyzer.Find(headers, "server-timing"); ok && strings.TrimSpace(m.Value) != "" {
		st := analyzer.ParseServerTiming(m.Value)
		analysis.ServerTiming = &st
	}

	return analysis, nil
}

// AnalyzeBatch analyzes many URLs concurrently. Outcomes keep input order.
func (s *Service) AnalyzeBatch(ctx context.Context, urls []string, runner checker.Runner) []checker.Outcome[*Analysis] {
	return checker.Run[*Analysis](ctx, runner, urls, s.Analyze)
}

// Get returns a stored scan re-evaluated against the current catalog.
// Stored scores are kept as recorded.
func (s *Service) Get(ctx context.Context, id int64) (*Analysis, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.Evaluate(record.URL, record.RawHeaders)
	if err != nil {
		return nil, err
	}
	analysis.Scan = record
	return analysis, nil
}

// History returns stored scans, newest first. An empty url lists scans
// for every site.
func (s *Service) History(ctx context.Context, rawURL string, limit int) ([]*scan.Record, error) {
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}
	if strings.TrimSpace(rawURL) == "" {
		return s.repo.Recent(ctx, limit)
	}

	url, err := checker.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByURL(ctx, url, limit)
}
