package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/khanhnv2901/hdrscan/internal/analyzer"
)

func writePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	rec := r.Record
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "HTTP Header Analysis", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(rec.URL), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Scanned: %s", rec.Timestamp.UTC().Format("2006-01-02 15:04:05 MST")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Overall
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, fmt.Sprintf("Overall: %d%% (Grade %s, %s)", rec.OverallScore, rec.OverallGrade, analyzer.FineGrade(rec.OverallScore)), "", 1, "", true, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, tr(r.Summary), "", "", false)
	pdf.Ln(4)

	for _, s := range r.Sections() {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, s.Title+" Headers", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Score: %d%% (Grade %s) - Implementation: %d/%d headers",
			s.Summary.Score, s.Summary.Grade, s.Summary.Implemented, s.Summary.Total), "", 1, "", false, 0, "")
		pdf.Ln(1)

		writePDFTable(pdf, tr, s.Headers)
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Header", 55},
	{"Status", 25},
	{"Importance", 25},
	{"Value", 85},
}

func writePDFTable(pdf *gofpdf.Fpdf, tr func(string) string, headers []analyzer.EvaluatedHeader) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 6, c.title, "1", 0, "", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, h := range headers {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
		cells := []string{
			h.Name,
			title(string(h.Status)),
			title(string(h.Importance)),
			truncate(valueOrDash(h), 55),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 5, tr(cells[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
