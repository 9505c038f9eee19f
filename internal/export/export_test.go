package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
	"github.com/khanhnv2901/hdrscan/internal/catalog"
	"github.com/khanhnv2901/hdrscan/internal/domain/scan"
	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	headers := map[string]string{
		"X-Frame-Options": "DENY",
		"Cache-Control":   "public, max-age=60",
		"Content-Type":    "text/html",
		"Server-Timing":   `db;dur=5;desc="Query, main"`,
		"CF-Ray":          "8abc",
	}
	ev, overall, err := analyzer.Analyze(analyzer.NewEvaluator(catalog.Default()), analyzer.NewAggregator(nil), headers)
	require.NoError(t, err)

	rec := scan.Build("https://www.example.com/path", headers, ev, overall)
	rec.ID = 7
	rec.Timestamp = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	st := analyzer.ParseServerTiming(headers["Server-Timing"])
	return Report{Record: rec, Evaluation: ev, Summary: overall.Summary, ServerTiming: &st}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"CSV": FormatCSV, " pdf ": FormatPDF, "md": FormatMarkdown, "markdown": FormatMarkdown, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	assert.ErrorIs(t, err, sharedErrors.ErrUnsupportedFormat)
}

func TestFilename(t *testing.T) {
	r := sampleReport(t)
	assert.Equal(t, "http-headers-example.com-2024-06-02.csv", Filename(r.Record, FormatCSV))
	assert.Equal(t, "http-headers-example.com-2024-06-02.md", Filename(r.Record, FormatMarkdown))

	ts := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	for raw, want := range map[string]string{
		"../../etc/passwd":        "http-headers-scan-2024-06-02.pdf",
		`C:\evil\x`:             "http-headers-C-evil-x-2024-06-02.pdf",
		"https://www.example.org": "http-headers-example.org-2024-06-02.pdf",
	} {
		assert.Equal(t, want, Filename(&scan.Record{URL: raw, Timestamp: ts}, FormatPDF), raw)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleReport(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+10+5+3)
	assert.Equal(t, csvHeader, rows[0])

	xfo := rows[3]
	assert.Equal(t, []string{"Security", "X-Frame-Options", "x-frame-options", "true", "DENY", "implemented", "important"}, xfo[:7])

	csp := rows[1]
	assert.Equal(t, "false", csp[3])
	assert.Equal(t, "", csp[4])
	assert.Equal(t, "missing", csp[5])

	ct := rows[1+10+5]
	assert.Equal(t, "Maintainability", ct[0])
	assert.Equal(t, "warning", ct[5])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport(t)))

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Contains(t, out, "scan")
	assert.Contains(t, out, "serverTiming")
	assert.Equal(t, "true", string(out["isUsingCloudflare"]))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, sampleReport(t)))

	md := buf.String()
	assert.Contains(t, md, "# HTTP Header Analysis")
	assert.Contains(t, md, "## Security Headers")
	assert.Contains(t, md, "## Maintainability Headers")
	assert.Contains(t, md, "Content-Security-Policy")
	assert.Contains(t, md, "Missing")
	assert.Contains(t, md, "## Cloudflare")
	assert.Contains(t, md, "## Server Timing")
	assert.Contains(t, md, "Query, main")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatPDF, sampleReport(t)))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("xlsx"), sampleReport(t)), sharedErrors.ErrUnsupportedFormat)
	assert.ErrorIs(t, Write(&buf, FormatCSV, Report{}), sharedErrors.ErrInvalidInput)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Implemented", title("implemented"))
	assert.Equal(t, "Critical", title("critical"))
}
