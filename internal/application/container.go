package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/checker"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/memory"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/sqlite"
)

// Storage drivers accepted by Options.StoreDriver.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreJSON   = "json"
)

// Options selects the collaborators wired into a Container.
type Options struct {
	StoreDriver    string
	StorePath      string
	CatalogFile    string
	Timeout        time.Duration
	UserAgent      string
	DetectProtocol bool
	Logger         *zap.Logger
}

// Container holds all application services and repositories
// This is a simple dependency injection container
type Container struct {
	Catalog  catalog.Catalog
	ScanRepo scan.Repository
	Checker  *checker.HTTPChecker

	ScanService *scanapp.Service
	Health      *Health
}

// NewContainer creates a new application service container
func NewContainer(opts Options) (*Container, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cat := catalog.Default()
	if opts.CatalogFile != "" {
		loaded, err := catalog.LoadFile(opts.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}

	repo, err := OpenRepository(opts.StoreDriver, opts.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan repository: %w", err)
	}

	httpChecker := checker.NewHTTPChecker(opts.Timeout, opts.UserAgent)

	serviceOpts := []scanapp.Option{scanapp.WithLogger(logger.Named("scan"))}
	if opts.DetectProtocol {
		serviceOpts = append(serviceOpts, scanapp.WithProtocolDetector(httpChecker))
	}
	scanService := scanapp.NewService(repo, httpChecker, analyzer.NewEvaluator(cat), analyzer.NewAggregator(nil), serviceOpts...)

	return &Container{
		Catalog:     cat,
		ScanRepo:    repo,
		Checker:     httpChecker,
		ScanService: scanService,
		Health:      &Health{repo: repo},
	}, nil
}

// Close releases the repository.
func (c *Container) Close() error {
	if c == nil || c.ScanRepo == nil {
		return nil
	}
	return c.ScanRepo.Close()
}

// OpenRepository opens the scan store for driver. An empty driver means
// sqlite. An empty path uses the driver's default location.
func OpenRepository(driver, path string) (scan.Repository, error) {
	driver = normalizeDriver(driver)
	if path == "" {
		path = DefaultStorePath(driver)
	}
	switch driver {
	case StoreMemory:
		return memory.NewRepository(), nil
	case StoreJSON:
		return json.NewScanRepository(path)
	case StoreSQLite:
		return sqlite.Open(path, sqlite.DefaultOptions())
	default:
		return nil, fmt.Errorf("unknown store driver %q (want memory, sqlite or json)", driver)
	}
}

// DefaultStorePath returns the directory a driver uses when none is
// configured. The memory driver has none.
func DefaultStorePath(driver string) string {
	switch normalizeDriver(driver) {
	case StoreSQLite:
		return sqlite.DefaultDir()
	case StoreJSON:
		return filepath.Join(sqlite.DefaultDir(), "scans")
	}
	return ""
}

func normalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return StoreSQLite
	}
	return driver
}

// Health reports liveness and readiness for the API.
type Health struct {
	repo scan.Repository
}

// Check always succeeds while the process is serving.
func (h *Health) Check(ctx context.Context) error {
	return nil
}

// Ready verifies the scan store answers queries.
func (h *Health) Ready(ctx context.Context) error {
	if _, err := h.repo.Recent(ctx, 1); err != nil {
		return fmt.Errorf("scan store not ready: %w", err)
	}
	return nil
}
