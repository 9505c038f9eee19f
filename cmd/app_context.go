package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/hdrscan/internal/application"
)

// AppContext carries the runtime state shared by every subcommand.
type AppContext struct {
	Logger *zap.SugaredLogger
	Config *CLIConfig

	services *application.Container
}

type appContextKey struct{}

var globalAppContext *AppContext

// newContainer is replaced in tests to point the checker at local servers.
var newContainer = application.NewContainer

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if ctx := cmd.Context(); ctx != nil {
		if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}

// Services opens the application container on first use so commands that
// never touch the store (version, rules) do not create one.
func (a *AppContext) Services() (*application.Container, error) {
	if a.services != nil {
		return a.services, nil
	}

	var logger *zap.Logger
	if a.Logger != nil {
		logger = a.Logger.Desugar()
	}
	cfg := a.Config
	if cfg == nil {
		cfg = newCLIConfig()
	}

	container, err := newContainer(application.Options{
		StoreDriver:    cfg.Store.Driver,
		StorePath:      cfg.Store.Path,
		CatalogFile:    cfg.CatalogFile,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSecs) * time.Second,
		UserAgent:      cfg.HTTP.UserAgent,
		DetectProtocol: cfg.HTTP.DetectProtocol,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	a.services = container
	return container, nil
}

// Close releases the container if it was opened.
func (a *AppContext) Close() error {
	if a.services == nil {
		return nil
	}
	err := a.services.Close()
	a.services = nil
	return err
}
