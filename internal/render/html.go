package render

import (
	"fmt"
	"html"
	"strings"
)

// WriteHTML projects a document tree to styled markup. Every text value is
// escaped on insertion (& < > " '); user-entered station names, notes and
// identifiers can never inject live markup into the rendered document.
func WriteHTML(doc Document) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, Helvetica, sans-serif; color:#111;">` + "\n")
	for i, section := range doc.Sections {
		style := "width:100%; padding:10px; box-sizing:border-box;"
		if i > 0 {
			style = "page-break-before:always; " + style
		}
		fmt.Fprintf(&b, `<div style=%q>`+"\n", style)
		for _, element := range section.Elements {
			switch block := element.(type) {
			case Paragraph:
				writeParagraphHTML(&b, block)
			case Table:
				writeTableHTML(&b, block)
			}
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func writeParagraphHTML(b *strings.Builder, p Paragraph) {
	style := "margin-bottom:6px;"
	if p.Bold {
		style += " font-weight:700;"
	}
	if p.Small {
		style += " font-size:10px; color:#444;"
	} else {
		style += " font-size:13px;"
	}
	if p.Align == AlignRight {
		style += " text-align:right;"
	}
	fmt.Fprintf(b, `<div style=%q>%s</div>`+"\n", style, html.EscapeString(p.Text))
}

func writeTableHTML(b *strings.Builder, t Table) {
	b.WriteString(`<table style="width:100%; border-collapse:collapse; font-size:10.5px;">` + "\n")
	for _, row := range t.Rows {
		rowStyle := ""
		if row.Shaded {
			rowStyle = ` style="background:#f3f3f3;"`
		}
		fmt.Fprintf(b, "<tr%s>", rowStyle)
		for _, cell := range row.Cells {
			writeCellHTML(b, cell)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}

func writeCellHTML(b *strings.Builder, c Cell) {
	style := "border:1px solid #333; padding:6px;"
	switch c.Align {
	case AlignCenter:
		style += " text-align:center;"
	case AlignRight:
		style += " text-align:right;"
	}
	span := ""
	if c.Span > 1 {
		span = fmt.Sprintf(` colspan="%d"`, c.Span)
	}
	text := html.EscapeString(c.Text)
	if c.Bold {
		text = "<strong>" + text + "</strong>"
	}
	fmt.Fprintf(b, `<td style=%q%s>%s</td>`, style, span, text)
}
