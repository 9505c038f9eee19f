package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	"github.com/khanhnv2901/hdrscan/internal/export"
	consts "github.com/khanhnv2901/hdrscan/internal/shared/constants"
	"github.com/khanhnv2901/hdrscan/internal/shared/security"
)

var exportCmd = &cobra.Command{
	Use:   "export <scan-id>",
	Short: "Export a stored scan as CSV, PDF, Markdown or JSON",
	Long: `Export a stored scan. The file is written to --output-dir as
http-headers-<domain>-<date>.<ext> unless --stdout is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		formatName, _ := cmd.Flags().GetString("format")
		toStdout, _ := cmd.Flags().GetBool("stdout")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return fmt.Errorf("invalid format %q (must be one of %s): %w", formatName, formatList(), err)
		}

		analysis, err := loadScan(cmd, appCtx, args[0])
		if err != nil {
			return err
		}
		report := reportFromAnalysis(analysis)

		if toStdout {
			return export.Write(cmd.OutOrStdout(), format, report)
		}

		path, err := writeExportFile(appCtx.Config.OutputDir, format, report)
		if err != nil {
			return err
		}
		appCtx.Logger.Infow("scan exported", "id", analysis.Scan.ID, "format", format, "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "%s Exported scan #%d to %s\n", colorSuccess("✓"), analysis.Scan.ID, path)
		return nil
	},
}

func reportFromAnalysis(a *scanapp.Analysis) export.Report {
	return export.Report{
		Record:       a.Scan,
		Evaluation:   a.Evaluation,
		Summary:      a.Summary,
		ServerTiming: a.ServerTiming,
	}
}

// writeExportFile renders report into dir, which is created when missing.
// The file name is derived from the scan and never escapes dir.
func writeExportFile(dir string, format export.Format, report export.Report) (string, error) {
	if dir == "" {
		dir = defaultOutputDir
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path, err := security.ResolveFile(dir, export.Filename(report.Record, format))
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.DefaultFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, format, report); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

func formatList() string {
	names := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func init() {
	exportCmd.Flags().String("format", string(export.FormatCSV), "export format (csv, pdf, markdown, json)")
	exportCmd.Flags().StringVarP(&cliConfig.OutputDir, "output-dir", "o", cliConfig.OutputDir, "directory for the exported file")
	exportCmd.Flags().Bool("stdout", false, "write the export to stdout instead of a file")
}
