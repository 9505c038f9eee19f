package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/memory"
	"github.com/khanhnv2901/hdrscan/internal/infrastructure/persistence/sqlite"
)

func TestOpenRepository(t *testing.T) {
	dir := t.TempDir()

	repo, err := OpenRepository("memory", "")
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := repo.(*memory.Repository); !ok {
		t.Errorf("expected memory repository, got %T", repo)
	}

	repo, err = OpenRepository("JSON", filepath.Join(dir, "json"))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if _, ok := repo.(*json.ScanRepository); !ok {
		t.Errorf("expected json repository, got %T", repo)
	}

	repo, err = OpenRepository("", filepath.Join(dir, "db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := repo.(*sqlite.Repository); !ok {
		t.Errorf("expected sqlite repository, got %T", repo)
	}
	_ = repo.Close()

	if _, err := OpenRepository("postgres", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(Options{StoreDriver: StoreMemory, Logger: zaptest.NewLogger(t)})
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	defer c.Close()

	if c.ScanService == nil || c.Checker == nil || c.Health == nil {
		t.Fatal("expected wired services")
	}
	if c.Catalog.Len(catalog.CategorySecurity) != 10 {
		t.Errorf("expected default catalog")
	}
	if err := c.Health.Ready(context.Background()); err != nil {
		t.Errorf("Ready: %v", err)
	}
}

func TestNewContainer_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("maintainability: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewContainer(Options{StoreDriver: StoreMemory, CatalogFile: path})
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.Catalog.Len(catalog.CategoryMaintainability) != 0 {
		t.Error("expected catalog file to apply")
	}

	if _, err := NewContainer(Options{StoreDriver: StoreMemory, CatalogFile: path + ".missing"}); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestDefaultStorePath(t *testing.T) {
	if got := DefaultStorePath(""); got != sqlite.DefaultDir() {
		t.Errorf("expected sqlite default for empty driver, got %q", got)
	}
	if got := DefaultStorePath("json"); got != filepath.Join(sqlite.DefaultDir(), "scans") {
		t.Errorf("unexpected json default %q", got)
	}
	if got := DefaultStorePath(StoreMemory); got != "" {
		t.Errorf("expected no path for memory, got %q", got)
	}
}
