package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/checker"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/memory"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

type stubFetcher struct {
	mu      sync.Mutex
	headers map[string]map[string]string
	err     error
	calls   []string
}

func (f *stubFetcher) FetchHeaders(_ context.Context, url string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.headers[url], nil
}

type stubProtocol struct{}

func (stubProtocol) DetectProtocol(context.Context, string) (checker.ProtocolInfo, error) {
	return checker.ProtocolInfo{Protocol: "HTTP/2"}, nil
}

type failingRepo struct{ scan.Repository }

func (failingRepo) Save(context.Context, *scan.Record) (*scan.Record, error) {
	return nil, sharedErrors.ErrRepositoryOperation
}

func newTestService(t *testing.T, repo scan.Repository, fetcher HeaderFetcher, opts ...Option) *Service {
	t.Helper()
	opts = append(opts, WithLogger(zaptest.NewLogger(t)))
	return NewService(repo, fetcher, analyzer.NewEvaluator(catalog.Default()), nil, opts...)
}

func TestAnalyze_RecordsScan(t *testing.T) {
	fetcher := &stubFetcher{headers: map[string]map[string]string{
		"https://example.com": {
			"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
			"X-Frame-Options":           "DENY",
			"Server-Timing":             "db;dur=12, app;dur=40",
			"CF-Ray":                    "abc-AMS",
		},
	}}
	repo := memory.NewRepository()
	svc := newTestService(t, repo, fetcher, WithProtocolDetector(stubProtocol{}))

	res, err := svc.Analyze(context.Background(), "  http://example.com/ ")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://example.com" {
		t.Errorf("expected normalized fetch, got %v", fetcher.calls)
	}
	if res.Scan.ID == 0 || res.Scan.Timestamp.IsZero() {
		t.Errorf("expected stored record, got %+v", res.Scan)
	}
	if res.Scan.ImplementedSecurityHeaders != 2 || res.Scan.TotalSecurityHeaders != 10 {
		t.Errorf("unexpected security counts %d/%d", res.Scan.ImplementedSecurityHeaders, res.Scan.TotalSecurityHeaders)
	}
	if len(res.SecurityHeaders) != 10 || len(res.PerformanceHeaders) != 5 || len(res.MaintainabilityHeaders) != 3 {
		t.Error("expected full detail lists")
	}
	if !res.IsUsingCloudflare {
		t.Error("expected cloudflare detection from cf-ray")
	}
	if res.HTTPProtocol == nil || res.HTTPProtocol.Protocol != "HTTP/2" {
		t.Errorf("expected protocol info, got %+v", res.HTTPProtocol)
	}
	if res.ServerTiming == nil || res.ServerTiming.Entries[0].Name != "app" {
		t.Errorf("expected parsed server timing, got %+v", res.ServerTiming)
	}
	if res.Summary == "" || res.Summary != res.Overall.Summary {
		t.Error("expected summary")
	}

	stored, err := repo.FindByID(context.Background(), res.Scan.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.OverallScore != res.Overall.Score {
		t.Errorf("stored overall %d, want %d", stored.OverallScore, res.Overall.Score)
	}
}

func TestAnalyze_InvalidURL(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := newTestService(t, memory.NewRepository(), fetcher)

	_, err := svc.Analyze(context.Background(), "not a url")
	if !errors.Is(err, sharedErrors.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Error("fetch should not run for invalid input")
	}
}

func TestAnalyze_FetchFailureSavesNothing(t *testing.T) {
	repo := memory.NewRepository()
	svc := newTestService(t, repo, &stubFetcher{err: errors.New("connection refused")})

	_, err := svc.Analyze(context.Background(), "example.com")
	if !errors.Is(err, sharedErrors.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}

	recent, _ := repo.Recent(context.Background(), 10)
	if len(recent) != 0 {
		t.Errorf("expected no records, got %d", len(recent))
	}
}

func TestAnalyze_SaveFailure(t *testing.T) {
	svc := newTestService(t, failingRepo{}, &stubFetcher{})
	if _, err := svc.Analyze(context.Background(), "example.com"); !errors.Is(err, sharedErrors.ErrRepositoryOperation) {
		t.Errorf("expected repository error, got %v", err)
	}
}

func TestEvaluate_EmptyHeaders(t *testing.T) {
	svc := newTestService(t, memory.NewRepository(), &stubFetcher{})

	res, err := svc.Evaluate("https://example.com", map[string]string{})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Scan.OverallScore != 0 || res.Scan.OverallGrade != "F" {
		t.Errorf("expected zero score, got %d %s", res.Scan.OverallScore, res.Scan.OverallGrade)
	}
	if res.ServerTiming != nil {
		t.Error("expected no server timing")
	}
	if res.Scan.ID != 0 {
		t.Error("Evaluate must not store")
	}
}

func TestAnalyzeBatch(t *testing.T) {
	fetcher := &stubFetcher{headers: map[string]map[string]string{
		"https://a.example": {"ETag": `"1"`},
		"https://b.example": {"Vary": "Accept-Encoding"},
	}}
	svc := newTestService(t, memory.NewRepository(), fetcher)

	out := svc.AnalyzeBatch(context.Background(), []string{"a.example", "bogus", "b.example"}, checker.Runner{Concurrency: 2})
	if len(out) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(out))
	}
	if out[0].Err != nil || out[0].Value.Scan.URL != "https://a.example" {
		t.Errorf("unexpected first outcome %+v", out[0])
	}
	if !errors.Is(out[1].Err, sharedErrors.ErrInvalidURL) {
		t.Errorf("expected invalid url for bogus, got %v", out[1].Err)
	}
	if out[2].Err != nil || out[2].Value.Scan.URL != "https://b.example" {
		t.Errorf("unexpected third outcome %+v", out[2])
	}
}

func TestGetAndHistory(t *testing.T) {
	fetcher := &stubFetcher{headers: map[string]map[string]string{
		"https://example.com": {"Content-Type": "text/html"},
	}}
	svc := newTestService(t, memory.NewRepository(), fetcher)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Analyze(ctx, "example.com"); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Scan.ID != 2 {
		t.Errorf("expected id 2, got %d", got.Scan.ID)
	}
	ct := got.MaintainabilityHeaders[0]
	if ct.Key != "content-type" || ct.Status != analyzer.StatusWarning {
		t.Errorf("expected re-evaluated content-type warning, got %+v", ct)
	}

	if _, err := svc.Get(ctx, 99); !errors.Is(err, sharedErrors.ErrScanNotFound) {
		t.Errorf("expected ErrScanNotFound, got %v", err)
	}

	hist, err := svc.History(ctx, "http://example.com", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[0].ID != 3 {
		t.Errorf("expected newest two scans, got %+v", hist)
	}

	all, err := svc.History(ctx, "", 0)
	if err != nil || len(all) != 3 {
		t.Errorf("expected all scans, got %d err=%v", len(all), err)
	}

	if _, err := svc.History(ctx, "nodot", 1); !errors.Is(err, sharedErrors.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}
