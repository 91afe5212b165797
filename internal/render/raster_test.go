package render

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func rasterFixture() Document {
	return Document{
		Title: "fixture",
		Sections: []Section{
			{Elements: []Element{
				Paragraph{Text: "Wykaz pojazdów", Bold: true},
				Table{
					Widths: []float64{20, 40, 40},
					Rows: []Row{
						{Shaded: true, Cells: []Cell{{Text: "Lp."}, {Text: "Numer"}, {Text: "Długość"}}},
						{Cells: []Cell{{Text: "1"}, {Text: "91 51 5 370 001-2"}, {Text: "19,8", Align: AlignRight}}},
						{Shaded: true, Cells: []Cell{{Text: "H1"}, {Text: "SUMA", Span: 2}}},
					},
				},
			}},
			{Elements: []Element{Paragraph{Text: "Podsumowanie"}}},
		},
	}
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(rasterFixture())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, got prefix %q", data[:min(8, len(data))])
	}
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(rasterFixture())
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	value, err := f.GetCellValue("page1", "B4")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if value != "91 51 5 370 001-2" {
		t.Fatalf("got %q, want vehicle number in page1!B4", value)
	}
	if _, err := f.GetCellValue("page2", "A1"); err != nil {
		t.Fatalf("second section sheet missing: %v", err)
	}
}
