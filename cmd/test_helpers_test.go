package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/hdrscan/internal/application"
)

// newHeaderServer serves a fixed set of response headers over TLS.
func newHeaderServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Content-Type", "text/html; charset=utf-8")
		h.Set("Cache-Control", "public, max-age=60")
		h.Set("Server-Timing", `db;dur=12.5;desc="Query", app;dur=3`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// useTestClient makes containers opened by commands trust srv.
func useTestClient(t *testing.T, srv *httptest.Server) {
	t.Helper()
	original := newContainer
	newContainer = func(opts application.Options) (*application.Container, error) {
		c, err := original(opts)
		if err != nil {
			return nil, err
		}
		c.Checker.Client = srv.Client()
		return c, nil
	}
	t.Cleanup(func() { newContainer = original })
}

// executeCommand runs the root command with args and returns its output.
// Global flag, viper and config state is reset before each run.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	resetFlags(rootCmd)
	*cliConfig = *newCLIConfig()

	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if globalAppContext != nil {
		_ = globalAppContext.Close()
		globalAppContext = nil
	}
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
