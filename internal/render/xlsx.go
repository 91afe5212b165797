package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildXLSX rasterizes a document tree to a workbook with one sheet per
// section. Spans collapse into the leading cell; alignment and shading are
// dropped, the cell values and row order are preserved exactly.
func BuildXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	for i, section := range doc.Sections {
		sheet := fmt.Sprintf("page%d", i+1)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
		rowIndex := 1
		for _, element := range section.Elements {
			switch block := element.(type) {
			case Paragraph:
				cellRef, err := excelize.CoordinatesToCellName(1, rowIndex)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(sheet, cellRef, block.Text); err != nil {
					return nil, err
				}
				rowIndex += 2
			case Table:
				for _, row := range block.Rows {
					columnIndex := 1
					for _, cell := range row.Cells {
						cellRef, err := excelize.CoordinatesToCellName(columnIndex, rowIndex)
						if err != nil {
							return nil, err
						}
						if err := f.SetCellValue(sheet, cellRef, cell.Text); err != nil {
							return nil, err
						}
						if cell.Span > 1 {
							columnIndex += cell.Span
						} else {
							columnIndex++
						}
					}
					rowIndex++
				}
				rowIndex++
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
