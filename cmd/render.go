package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	scanapp "github.com/khanhnv2901/hdrscan/internal/application/scan"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
)

const maxValueWidth = 72

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printAnalysis renders one analysis for the terminal. verbose adds the
// description and recommendation of every rule that is not implemented.
func printAnalysis(w io.Writer, a *scanapp.Analysis, verbose bool) {
	rec := a.Scan
	fmt.Fprintf(w, "%s %s\n", colorBold("URL:"), rec.URL)
	if rec.ID != 0 {
		fmt.Fprintf(w, "%s #%d at %s\n", colorBold("Scan:"), rec.ID, formatTimestamp(rec.Timestamp))
	}
	fmt.Fprintf(w, "%s %d/100  %s (%s)\n\n", colorBold("Overall:"), rec.OverallScore,
		formatGradeWithColor(rec.OverallGrade), analyzer.FineGrade(rec.OverallScore))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSCORE\tGRADE\tIMPLEMENTED")
	for _, c := range catalog.ScoredCategories {
		sum, _ := rec.Category(c)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d/%d\n", c.Title(), sum.Score, analyzer.FineGrade(sum.Score), sum.Implemented, sum.Total)
	}
	_ = tw.Flush()

	for _, c := range catalog.ScoredCategories {
		res, _ := a.Evaluation.Category(c)
		fmt.Fprintf(w, "\n%s\n", colorBold(c.Title()+" headers"))
		printHeaderList(w, res.Details, verbose)
	}

	fmt.Fprintln(w)
	if a.IsUsingCloudflare {
		cf := a.Evaluation.Cloudflare
		fmt.Fprintf(w, "%s detected (%d/%d indicators)\n", colorBold("Cloudflare:"), cf.Implemented, cf.Total)
	} else {
		fmt.Fprintf(w, "%s not detected\n", colorBold("Cloudflare:"))
	}

	if p := a.HTTPProtocol; p != nil {
		fmt.Fprintf(w, "%s %s", colorBold("Protocol:"), p.Protocol)
		if p.HTTP3Advertised {
			fmt.Fprint(w, " (HTTP/3 advertised)")
		}
		fmt.Fprintln(w)
	}

	if st := a.ServerTiming; st != nil && len(st.Entries) > 0 {
		fmt.Fprintf(w, "%s %.1fms total\n", colorBold("Server-Timing:"), st.Total)
		for _, e := range st.Entries {
			fmt.Fprintf(w, "  %-16s %8.1fms  %s\n", e.Name, e.Duration, e.Description)
		}
	}

	fmt.Fprintf(w, "\n%s\n", a.Summary)
}

func printHeaderList(w io.Writer, headers []analyzer.EvaluatedHeader, verbose bool) {
	if len(headers) == 0 {
		fmt.Fprintln(w, "  (no rules)")
		return
	}
	for _, h := range headers {
		fmt.Fprintf(w, "  %s %-34s %-12s %s\n", statusSymbol(string(h.Status)), h.Name,
			formatStatusWithColor(string(h.Status)), h.Importance)
		if h.Value != nil {
			fmt.Fprintf(w, "      %s\n", truncateValue(*h.Value, maxValueWidth))
		}
		if verbose && h.Status != analyzer.StatusImplemented {
			if h.Recommendation != "" {
				fmt.Fprintf(w, "      %s %s\n", colorInfo("→"), h.Recommendation)
			} else {
				fmt.Fprintf(w, "      %s %s\n", colorInfo("→"), h.Description)
			}
		}
	}
}

// printRecords renders stored scans as a table, newest first.
func printRecords(w io.Writer, records []*scan.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No scans recorded yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIMESTAMP\tURL\tOVERALL\tSEC\tPERF\tMAINT")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d (%s)\t%d\t%d\t%d\n",
			r.ID, formatTimestamp(r.Timestamp), r.URL, r.OverallScore, r.OverallGrade,
			r.SecurityScore, r.PerformanceScore, r.MaintainabilityScore)
	}
	_ = tw.Flush()
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func truncateValue(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
