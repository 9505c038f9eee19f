package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
)

func writeMarkdown(w io.Writer, r Report) error {
	md := markdown.NewMarkdown(w)
	rec := r.Record

	md.H1("HTTP Header Analysis")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + rec.URL + "`"},
			{"Scan ID", strconv.FormatInt(rec.ID, 10)},
			{"Scanned", rec.Timestamp.UTC().Format("2006-01-02 15:04:05 MST")},
			{"Overall", fmt.Sprintf("%d%% (%s, %s)", rec.OverallScore, rec.OverallGrade, analyzer.FineGrade(rec.OverallScore))},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	rows := make([][]string, 0, 3)
	for _, s := range r.Sections() {
		rows = append(rows, []string{
			s.Title,
			fmt.Sprintf("%d%%", s.Summary.Score),
			s.Summary.Grade,
			fmt.Sprintf("%d/%d", s.Summary.Implemented, s.Summary.Total),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Score", "Grade", "Implemented"},
		Rows:   rows,
	})
	md.PlainText("")

	writeVerdict(md, r)

	for _, s := range r.Sections() {
		md.H2(s.Title + " Headers")
		md.PlainText("")
		writeHeaderTable(md, s.Headers)
	}

	if r.Evaluation.Cloudflare.IsUsingCloudflare {
		md.H2("Cloudflare")
		md.PlainText("")
		var seen []string
		for _, h := range r.Evaluation.Cloudflare.Details {
			if h.Implemented {
				seen = append(seen, fmt.Sprintf("`%s`: %s", h.Name, h.ValueOrEmpty()))
			}
		}
		md.BulletList(seen...)
		md.PlainText("")
	}

	if r.ServerTiming != nil && len(r.ServerTiming.Entries) > 0 {
		md.H2("Server Timing")
		md.PlainText("")
		timing := make([][]string, 0, len(r.ServerTiming.Entries))
		for _, e := range r.ServerTiming.Entries {
			timing = append(timing, []string{e.Name, e.Description, strconv.FormatFloat(e.Duration, 'f', -1, 64)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Metric", "Description", "Duration (ms)"},
			Rows:   timing,
		})
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by hdrscan*")

	return md.Build()
}

func writeVerdict(md *markdown.Markdown, r Report) {
	missing := r.Evaluation.Security.MissingCritical()
	switch {
	case len(missing) > 0:
		md.Cautionf("Missing critical security headers: %s", strings.Join(missing, ", "))
	case r.Record.OverallScore >= 90:
		md.Tip(r.Summary)
	default:
		md.Note(r.Summary)
	}
	md.PlainText("")
}

func writeHeaderTable(md *markdown.Markdown, headers []analyzer.EvaluatedHeader) {
	rows := make([][]string, 0, len(headers))
	for _, h := range headers {
		rows = append(rows, []string{
			h.Name,
			title(string(h.Status)),
			title(string(h.Importance)),
			escapeCell(truncate(valueOrDash(h), 60)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Header", "Status", "Importance", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, h := range headers {
		if h.Status != analyzer.StatusImplemented && h.Recommendation != "" {
			md.Details(h.Name, h.Recommendation+"\n\n"+h.Link)
		}
	}
	md.PlainText("")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
