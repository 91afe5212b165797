// Package render describes printable documents as a tree of styled blocks
// and tables, and rasterizes the tree to PDF, XLSX or HTML markup. Builders
// construct the whole tree synchronously from a snapshot; rasterization
// either completes or fails as a unit, there is no partial output.
package render

// Align positions text within a table cell.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Cell is one table cell. Span widens the cell over the following columns;
// zero or one means a single column.
type Cell struct {
	Text  string
	Align Align
	Bold  bool
	Span  int
}

// Row is one table row. Shaded rows are the header and totals rows.
type Row struct {
	Cells  []Cell
	Shaded bool
}

// Table is a bordered table. Widths are relative column widths and are
// normalized by the rasterizer; when empty, columns are equally wide.
type Table struct {
	Widths []float64
	Rows   []Row
}

// Paragraph is a free-standing text block.
type Paragraph struct {
	Text  string
	Bold  bool
	Small bool
	Align Align
}

// Element is a renderable block within a section.
type Element interface {
	element()
}

func (Table) element()     {}
func (Paragraph) element() {}

// Section is one page-break-delimited part of a document. Every section
// after the first starts on a new page.
type Section struct {
	Elements []Element
}

// Document is a complete paginated document description.
type Document struct {
	Title    string
	Sections []Section
}

// Columns reports the widest row of a table, counting spans.
func (t Table) Columns() int {
	max := 0
	for _, row := range t.Rows {
		count := 0
		for _, cell := range row.Cells {
			if cell.Span > 1 {
				count += cell.Span
			} else {
				count++
			}
		}
		if count > max {
			max = count
		}
	}
	return max
}
