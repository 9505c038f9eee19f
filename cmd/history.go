package cmd

import (
	"github.com/spf13/cobra"

	consts "github.com/khanhnv2901/hdrscan/internal/shared/constants"
)

var historyCmd = &cobra.Command{
	Use:   "history [url]",
	Short: "List stored scans, newest first",
	Long: `List stored scans, newest first. With a URL only scans of that site are
shown; the URL is normalized the same way analyze does.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOut, _ := cmd.Flags().GetBool("json")

		services, err := appCtx.Services()
		if err != nil {
			return err
		}

		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		records, err := services.ScanService.History(cmd.Context(), target, limit)
		if err != nil {
			return err
		}

		if jsonOut {
			return printJSON(cmd.OutOrStdout(), records)
		}
		printRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", consts.DefaultHistoryLimit, "maximum number of scans to list")
	historyCmd.Flags().Bool("json", false, "print scans as JSON")
}
