package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "HDRSCAN"

var cfgFile string
var envFile string
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "hdrscan",
	Short: "Score a website's HTTP response headers for security, performance and maintainability",
	Long: `hdrscan fetches the response headers of a website and grades them against
a catalog of recommended security, performance and maintainability headers.

Results are stored locally so past scans can be listed, inspected and exported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}

		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}

		applyConfigDefaults(cmd)

		storeAppContext(cmd, &AppContext{
			Logger: logger,
			Config: cliConfig,
		})
		logger.Debugw("configuration loaded",
			"config_file", viper.ConfigFileUsed(),
			"store", cliConfig.Store.Driver,
			"store_path", cliConfig.Store.Path)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx != nil && appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if appCtx := globalAppContext; appCtx != nil {
		if closeErr := appCtx.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(1)
	}
}

// initConfig loads .env, the YAML config file and HDRSCAN_* variables.
// A missing default config file is not an error; an explicit --config is.
func initConfig() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".hdrscan")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l.Sugar(), nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hdrscan.yaml)")
	flags.StringVar(&envFile, "env-file", "", "dotenv file to load (default is ./.env when present)")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&cliConfig.Store.Driver, "store", cliConfig.Store.Driver, "scan store driver (sqlite, json or memory)")
	flags.StringVar(&cliConfig.Store.Path, "store-path", cliConfig.Store.Path, "scan store directory (default is the XDG data directory)")
	flags.StringVar(&cliConfig.CatalogFile, "catalog", cliConfig.CatalogFile, "YAML file overriding the built-in header catalog")
	flags.IntVar(&cliConfig.HTTP.TimeoutSecs, "timeout", cliConfig.HTTP.TimeoutSecs, "timeout in seconds for each header fetch")
	flags.StringVar(&cliConfig.HTTP.UserAgent, "user-agent", cliConfig.HTTP.UserAgent, "User-Agent sent when fetching headers")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}
