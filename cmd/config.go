package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/hdrscan/internal/application"
	consts "github.com/khanhnv2901/hdrscan/internal/shared/constants"
)

const (
	defaultHTTPTimeoutSeconds = int(consts.DefaultFetchTimeout / time.Second)
	defaultBatchConcurrency   = 4
	defaultBatchRateLimit     = 5
	defaultOutputDir          = "."
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Store       StoreConfig
	HTTP        HTTPConfig
	Batch       BatchConfig
	CatalogFile string
	OutputDir   string
}

// StoreConfig selects where scans are persisted.
type StoreConfig struct {
	Driver string
	Path   string
}

// HTTPConfig controls outbound header fetches.
type HTTPConfig struct {
	TimeoutSecs    int
	UserAgent      string
	DetectProtocol bool
}

// BatchConfig consolidates flag-driven settings for multi-URL analysis.
type BatchConfig struct {
	Concurrency int
	RateLimit   int
}

type configOverrides struct {
	StoreDriver    string
	StorePath      string
	CatalogFile    string
	OutputDir      string
	UserAgent      string
	TimeoutSecs    *int
	DetectProtocol *bool
	Concurrency    *int
	RateLimit      *int
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Store: StoreConfig{
			Driver: application.StoreSQLite,
		},
		HTTP: HTTPConfig{
			TimeoutSecs: defaultHTTPTimeoutSeconds,
			UserAgent:   consts.DefaultUserAgent,
		},
		Batch: BatchConfig{
			Concurrency: defaultBatchConcurrency,
			RateLimit:   defaultBatchRateLimit,
		},
		OutputDir: defaultOutputDir,
	}
}

func loadConfigOverrides() configOverrides {
	overrides := configOverrides{
		StoreDriver: viper.GetString("store.driver"),
		StorePath:   viper.GetString("store.path"),
		CatalogFile: viper.GetString("catalog.file"),
		OutputDir:   viper.GetString("output_dir"),
		UserAgent:   viper.GetString("http.user_agent"),
	}

	if viper.IsSet("http.timeout_secs") {
		val := viper.GetInt("http.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("http.detect_protocol") {
		val := viper.GetBool("http.detect_protocol")
		overrides.DetectProtocol = &val
	}

	if viper.IsSet("batch.concurrency") {
		val := viper.GetInt("batch.concurrency")
		overrides.Concurrency = &val
	}

	if viper.IsSet("batch.rate_limit") {
		val := viper.GetInt("batch.rate_limit")
		overrides.RateLimit = &val
	}

	return overrides
}

// applyConfigDefaults merges config file and environment values into the
// runtime config when the user did not explicitly set the matching flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadConfigOverrides()
	flags := cmd.Flags()

	applyStringDefault(flags, "store", overrides.StoreDriver, func(v string) { cliConfig.Store.Driver = v })
	applyStringDefault(flags, "store-path", overrides.StorePath, func(v string) { cliConfig.Store.Path = v })
	applyStringDefault(flags, "catalog", overrides.CatalogFile, func(v string) { cliConfig.CatalogFile = v })
	applyStringDefault(flags, "user-agent", overrides.UserAgent, func(v string) { cliConfig.HTTP.UserAgent = v })
	applyStringDefault(flags, "output-dir", overrides.OutputDir, func(v string) { cliConfig.OutputDir = v })

	if overrides.TimeoutSecs != nil && *overrides.TimeoutSecs > 0 {
		applyIntDefault(flags, "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.HTTP.TimeoutSecs = v
		})
	}

	if overrides.DetectProtocol != nil {
		applyBoolDefault(flags, "protocol", *overrides.DetectProtocol, func(v bool) {
			cliConfig.HTTP.DetectProtocol = v
		})
	}

	if overrides.Concurrency != nil && *overrides.Concurrency > 0 {
		applyIntDefault(flags, "concurrency", *overrides.Concurrency, func(v int) {
			cliConfig.Batch.Concurrency = v
		})
	}

	if overrides.RateLimit != nil && *overrides.RateLimit >= 0 {
		applyIntDefault(flags, "rate-limit", *overrides.RateLimit, func(v int) {
			cliConfig.Batch.RateLimit = v
		})
	}
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil || value == "" {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}
