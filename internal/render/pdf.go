package render

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth   = 210.0
	pdfMargin      = 8.0
	pdfLineHeight  = 6.0
	pdfUsableWidth = pdfPageWidth - 2*pdfMargin
)

// BuildPDF rasterizes a document tree to an A4 portrait PDF. Failure
// reasons are opaque to callers and surfaced as-is; no partial file is ever
// produced.
func BuildPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	// The R-7 form carries Polish diacritics; core fonts need cp1250.
	translate := pdf.UnicodeTranslatorFromDescriptor("cp1250")

	for _, section := range doc.Sections {
		pdf.AddPage()
		for _, element := range section.Elements {
			switch block := element.(type) {
			case Paragraph:
				writeParagraphPDF(pdf, translate, block)
			case Table:
				writeTablePDF(pdf, translate, block)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParagraphPDF(pdf *gofpdf.Fpdf, translate func(string) string, p Paragraph) {
	style := ""
	size := 11.0
	if p.Bold {
		style = "B"
	}
	if p.Small {
		size = 8
	}
	pdf.SetFont("Arial", style, size)
	align := "L"
	if p.Align == AlignRight {
		align = "R"
	}
	pdf.CellFormat(0, pdfLineHeight, translate(p.Text), "", 1, align, false, 0, "")
	pdf.Ln(1)
}

func writeTablePDF(pdf *gofpdf.Fpdf, translate func(string) string, t Table) {
	widths := columnWidths(t)
	for _, row := range t.Rows {
		pdf.SetFont("Arial", "", 8)
		if row.Shaded {
			pdf.SetFillColor(243, 243, 243)
		}
		column := 0
		for _, cell := range row.Cells {
			span := cell.Span
			if span < 1 {
				span = 1
			}
			width := 0.0
			for s := 0; s < span && column < len(widths); s++ {
				width += widths[column]
				column++
			}
			style := ""
			if cell.Bold {
				style = "B"
			}
			pdf.SetFont("Arial", style, 8)
			pdf.CellFormat(width, pdfLineHeight, translate(cell.Text), "1", 0, alignCode(cell.Align), row.Shaded, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func columnWidths(t Table) []float64 {
	columns := t.Columns()
	if columns == 0 {
		return nil
	}
	widths := t.Widths
	if len(widths) != columns {
		widths = make([]float64, columns)
		for i := range widths {
			widths[i] = 1
		}
	}
	total := 0.0
	for _, w := range widths {
		total += w
	}
	scaled := make([]float64, columns)
	for i, w := range widths {
		scaled[i] = w / total * pdfUsableWidth
	}
	return scaled
}

func alignCode(a Align) string {
	switch a {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}
