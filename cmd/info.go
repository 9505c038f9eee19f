package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/hdrscan/internal/catalog"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show configuration and data locations",
	Long: `Display hdrscan configuration information including:
  - Scan store driver and location
  - Configuration file path
  - Header catalog in use`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config

		configFile := viper.ConfigFileUsed()
		configState := "✓ (loaded)"
		if configFile == "" {
			configFile = defaultConfigPath()
			configState = "✗ (using defaults)"
		}

		catalogSource := "built-in"
		if cfg.CatalogFile != "" {
			catalogSource = cfg.CatalogFile
		}
		cat, err := loadCatalog(cfg.CatalogFile)
		if err != nil {
			return err
		}

		location := storeLocation(cfg)
		storeState := ""
		if location != memoryLocation {
			storeState = existsLabel(location)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "hdrscan System Information")
		fmt.Fprintln(out, "==========================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Version:           %s\n", Version)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Scan Store:")
		fmt.Fprintf(out, "  Driver:          %s\n", cfg.Store.Driver)
		fmt.Fprintf(out, "  Location:        %s %s\n", location, storeState)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Configuration File: %s %s\n", configFile, configState)
		fmt.Fprintf(out, "Export Directory:   %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "User-Agent:         %s\n", cfg.HTTP.UserAgent)
		fmt.Fprintf(out, "Fetch Timeout:      %ds\n", cfg.HTTP.TimeoutSecs)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Header Catalog:     %s\n", catalogSource)
		for _, c := range catalog.AllCategories {
			fmt.Fprintf(out, "  %-16s %d rules\n", c.Title()+":", cat.Len(c))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Settings can be overridden in ~/.hdrscan.yaml or with HDRSCAN_* variables, e.g.")
		fmt.Fprintln(out, "  store:")
		fmt.Fprintln(out, "    driver: json")
		fmt.Fprintln(out, "    path: /custom/path/to/scans")
		return nil
	},
}
