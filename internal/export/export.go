// Package export renders a scan and its evaluated headers as CSV, PDF,
// Markdown or JSON.
package export

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
	"github.com/khanhnv2901/hdrscan/internal/shared/security"
)

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatPDF, FormatMarkdown, FormatJSON}

var extensions = map[Format]string{
	FormatCSV:      ".csv",
	FormatPDF:      ".pdf",
	FormatMarkdown: ".md",
	FormatJSON:     ".json",
}

// ParseFormat accepts a format name or common alias ("md").
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatPDF, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", sharedErrors.ErrUnsupportedFormat, s)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return extensions[f]
}

// Report is everything an export needs about one scan.
type Report struct {
	Record       *scan.Record
	Evaluation   analyzer.Evaluation
	Summary      string
	ServerTiming *analyzer.ServerTiming
}

// Section is one scored category as rendered in exports.
type Section struct {
	Category catalog.Category
	Title    string
	Summary  scan.CategorySummary
	Headers  []analyzer.EvaluatedHeader
}

// Sections returns the scored categories in presentation order.
func (r Report) Sections() []Section {
	out := make([]Section, 0, len(catalog.ScoredCategories))
	for _, c := range catalog.ScoredCategories {
		res, _ := r.Evaluation.Category(c)
		summary, _ := r.Record.Category(c)
		out = append(out, Section{
			Category: c,
			Title:    c.Title(),
			Summary:  summary,
			Headers:  res.Details,
		})
	}
	return out
}

type renderer func(w io.Writer, r Report) error

var renderers = map[Format]renderer{
	FormatCSV:      writeCSV,
	FormatPDF:      writePDF,
	FormatMarkdown: writeMarkdown,
	FormatJSON:     writeJSON,
}

// Write renders r to w in format f.
func Write(w io.Writer, f Format, r Report) error {
	render, ok := renderers[f]
	if !ok {
		return fmt.Errorf("%w: %q", sharedErrors.ErrUnsupportedFormat, f)
	}
	if r.Record == nil {
		return fmt.Errorf("%w: report has no scan record", sharedErrors.ErrInvalidInput)
	}
	return render(w, r)
}

// Filename returns http-headers-<domain>-<yyyy-mm-dd><ext> for a record.
func Filename(r *scan.Record, f Format) string {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("http-headers-%s-%s%s", domainOf(r.URL), ts.UTC().Format("2006-01-02"), f.Extension())
}

func domainOf(raw string) string {
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	} else {
		host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
		host = strings.SplitN(host, "/", 2)[0]
	}
	host = strings.TrimPrefix(host, "www.")
	return security.SanitizeFileComponent(host, "scan")
}

var titleCaser = cases.Title(language.English)

// title capitalizes status and importance labels for display.
func title(s string) string {
	return titleCaser.String(s)
}

func valueOrDash(h analyzer.EvaluatedHeader) string {
	if v := h.ValueOrEmpty(); v != "" {
		return v
	}
	return "-"
}
