package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Generator renders the check-in text into an archivable document.
type Generator struct{}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the report text in the requested format. txt is the text
// itself; pdf wraps it in a single-page-flow PDF.
func (g *Generator) Generate(format, weekStart, text string) ([]byte, error) {
	switch format {
	case FormatTXT:
		return []byte(text), nil
	case FormatPDF:
		return g.generatePDF(weekStart, text)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// generatePDF lays the report out line by line. The check-in text is a
// line-oriented format already, so the PDF mirrors it with the title on top.
// Item labels may carry non-ASCII punctuation; the cp1252 translator covers
// what the built-in fonts can draw.
func (g *Generator) generatePDF(weekStart, text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Weekly Check-in"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Week of %s", weekStart)))
	pdf.Ln(10)

	pdf.SetFont("Courier", "", 10)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			pdf.Ln(5)
			continue
		}
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}
