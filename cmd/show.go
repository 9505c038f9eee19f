package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

var showCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show a stored scan in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		jsonOut, _ := cmd.Flags().GetBool("json")
		verbose, _ := cmd.Flags().GetBool("verbose")

		analysis, err := loadScan(cmd, appCtx, args[0])
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), analysis)
		}
		printAnalysis(cmd.OutOrStdout(), analysis, verbose)
		return nil
	},
}

// loadScan parses a scan id argument and loads the re-evaluated scan.
func loadScan(cmd *cobra.Command, appCtx *AppContext, arg string) (*scanapp.Analysis, error) {
	id, err := parseScanID(arg)
	if err != nil {
		return nil, err
	}

	services, err := appCtx.Services()
	if err != nil {
		return nil, err
	}

	analysis, err := services.ScanService.Get(cmd.Context(), id)
	if errors.Is(err, sharedErrors.ErrScanNotFound) {
		return nil, &ScanNotFoundError{ID: id}
	}
	return analysis, err
}

func parseScanID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid scan id %q: must be a positive integer", arg)
	}
	return id, nil
}

func init() {
	showCmd.Flags().Bool("json", false, "print the scan as JSON")
	showCmd.Flags().BoolP("verbose", "v", false, "show recommendations for missing and weak headers")
}
