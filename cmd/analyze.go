package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	"github.com/khanhnv2901/hdrscan/internal/checker"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
)

type analyzeOptions struct {
	file      string
	jsonOut   bool
	verbose   bool
	progress  bool
	failUnder int
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url...]",
	Short: "Fetch and score the response headers of one or more websites",
	Long: `Fetch the response headers of each URL and score them.

URLs without a scheme are analyzed over https. Several URLs (or --file) run
concurrently, bounded by --concurrency and --rate-limit. Every successful
analysis is saved to the scan store.`,
	Example: `  hdrscan analyze example.com
  hdrscan analyze https://example.com/login --verbose
  hdrscan analyze --file sites.txt --concurrency 8 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		targets, err := collectTargets(args, analyzeOpts.file, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return fmt.Errorf("at least one URL is required (pass it as an argument or use --file)")
		}

		services, err := appCtx.Services()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if len(targets) == 1 {
			analysis, err := services.ScanService.Analyze(ctx, targets[0])
			if err != nil {
				return err
			}
			if analyzeOpts.jsonOut {
				if err := printJSON(out, analysis); err != nil {
					return err
				}
			} else {
				printAnalysis(out, analysis, analyzeOpts.verbose)
			}
			return checkThreshold([]*scan.Record{analysis.Scan}, analyzeOpts.failUnder)
		}

		return runBatch(ctx, cmd, appCtx, services.ScanService, targets)
	},
}

type batchEntry struct {
	Target   string            `json:"target"`
	Analysis *scanapp.Analysis `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
	Duration float64           `json:"durationSeconds"`
}

func runBatch(ctx context.Context, cmd *cobra.Command, appCtx *AppContext, svc *scanapp.Service, targets []string) error {
	cfg := appCtx.Config
	runner := checker.Runner{
		Concurrency: cfg.Batch.Concurrency,
		RateLimit:   cfg.Batch.RateLimit,
		Timeout:     time.Duration(cfg.HTTP.TimeoutSecs) * time.Second * 2,
	}

	var progress *progressPrinter
	if analyzeOpts.progress && !analyzeOpts.jsonOut {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(targets), "Analyze")
		runner.OnDone = progress.Record
		progress.Start()
	}

	startTime := time.Now()
	outcomes := svc.AnalyzeBatch(ctx, targets, runner)
	if progress != nil {
		progress.Stop()
	}

	entries := make([]batchEntry, 0, len(outcomes))
	records := make([]*scan.Record, 0, len(outcomes))
	var failed []string
	for _, o := range outcomes {
		entry := batchEntry{Target: o.Target, Duration: o.Duration.Seconds()}
		if o.Err != nil {
			entry.Error = o.Err.Error()
			failed = append(failed, o.Target)
			appCtx.Logger.Warnw("analysis failed", "target", o.Target, "error", o.Err)
		} else {
			entry.Analysis = o.Value
			records = append(records, o.Value.Scan)
		}
		entries = append(entries, entry)
	}
	appCtx.Logger.Infow("batch finished",
		"targets", len(targets),
		"failed", len(failed),
		"duration", time.Since(startTime).String())

	out := cmd.OutOrStdout()
	if analyzeOpts.jsonOut {
		if err := printJSON(out, entries); err != nil {
			return err
		}
	} else {
		for i, e := range entries {
			if i > 0 {
				fmt.Fprintln(out, strings.Repeat("─", 60))
			}
			if e.Analysis == nil {
				fmt.Fprintf(out, "%s %s: %s\n", colorError("✗"), e.Target, e.Error)
				continue
			}
			printAnalysis(out, e.Analysis, analyzeOpts.verbose)
		}
		fmt.Fprintf(out, "\n%s %d analyzed, %d failed\n", colorInfo("→"), len(records), len(failed))
	}

	if len(failed) > 0 {
		return &BatchError{Failed: failed, Total: len(targets)}
	}
	return checkThreshold(records, analyzeOpts.failUnder)
}

// collectTargets merges positional URLs with those read from file. Blank
// lines and lines starting with # are skipped. A file of "-" reads stdin.
func collectTargets(args []string, file string, stdin io.Reader) ([]string, error) {
	targets := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			targets = append(targets, a)
		}
	}
	if file == "" {
		return targets, nil
	}

	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open targets file: %w", err)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}
	return targets, nil
}

// checkThreshold fails when any overall score is below min. Zero disables it.
func checkThreshold(records []*scan.Record, min int) error {
	if min <= 0 {
		return nil
	}
	var below []string
	for _, r := range records {
		if r.OverallScore < min {
			below = append(below, fmt.Sprintf("%s (%d)", r.URL, r.OverallScore))
		}
	}
	if len(below) > 0 {
		return fmt.Errorf("overall score below %d: %s", min, strings.Join(below, ", "))
	}
	return nil
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVarP(&analyzeOpts.file, "file", "f", "", "read URLs from a file, one per line (- for stdin)")
	flags.BoolVar(&analyzeOpts.jsonOut, "json", false, "print the analysis as JSON")
	flags.BoolVarP(&analyzeOpts.verbose, "verbose", "v", false, "show recommendations for missing and weak headers")
	flags.BoolVar(&analyzeOpts.progress, "progress", true, "show a progress line while analyzing several URLs")
	flags.IntVar(&analyzeOpts.failUnder, "fail-under", 0, "exit non-zero when an overall score is below this value")
	flags.BoolVar(&cliConfig.HTTP.DetectProtocol, "protocol", cliConfig.HTTP.DetectProtocol, "also detect the negotiated HTTP protocol")
	flags.IntVar(&cliConfig.Batch.Concurrency, "concurrency", cliConfig.Batch.Concurrency, "maximum concurrent analyses")
	flags.IntVar(&cliConfig.Batch.RateLimit, "rate-limit", cliConfig.Batch.RateLimit, "maximum analyses started per second (0 = unlimited)")
}
