package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/hdrscan/internal/api"
	consts "github.com/khanhnv2901/hdrscan/internal/shared/constants"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the header analyzer as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		flags := cmd.Flags()
		addr, _ := flags.GetString("addr")
		authToken, _ := flags.GetString("auth-token")
		historyLimit, _ := flags.GetInt("history-limit")
		shutdownTimeout, _ := flags.GetDuration("shutdown-timeout")
		corsOrigins, _ := flags.GetStringSlice("cors-origins")
		rateLimit, _ := flags.GetInt("rate-limit")
		rateBurst, _ := flags.GetInt("rate-burst")

		applyStringDefault(flags, "addr", viper.GetString("server.addr"), func(v string) { addr = v })
		applyStringDefault(flags, "auth-token", viper.GetString("server.auth_token"), func(v string) { authToken = v })
		if viper.IsSet("server.cors_origins") {
			if flag := flags.Lookup("cors-origins"); flag == nil || !flag.Changed {
				corsOrigins = viper.GetStringSlice("server.cors_origins")
			}
		}
		if viper.IsSet("server.rate_limit") {
			applyIntDefault(flags, "rate-limit", viper.GetInt("server.rate_limit"), func(v int) { rateLimit = v })
		}

		services, err := appCtx.Services()
		if err != nil {
			return err
		}

		logger := appCtx.Logger.Desugar().Named("api")
		server := api.NewServer(api.Config{
			Scans:        services.ScanService,
			Health:       services.Health,
			AuthToken:    authToken,
			HistoryLimit: historyLimit,
			Logger:       logger,
			CORSOrigins:  corsOrigins,
			RateLimit:    rateLimit,
			RateBurst:    rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		// Channel to listen for errors from the server
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s API server listening on %s (store: %s)\n", colorInfo("→"), addr, appCtx.Config.Store.Driver)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				// Force close if graceful shutdown fails
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Server shutdown complete\n", colorSuccess("✓"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Int("history-limit", consts.DefaultHistoryLimit, "Default number of scans returned by /scans")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 10, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 20, "Rate limit burst size")
}
