package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// WriteXLSX renders every sheet of the workbook in order and returns the
// file contents. Text cells are sanitized against formula injection.
func WriteXLSX(wb Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("write excel: workbook %q has no sheets", wb.Name)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	for i, s := range wb.Sheets {
		name := sheetName(s.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, s, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if name == "" {
		name = "Sheet"
	}
	return name
}

type sheetStyles struct {
	header int
	text   int
	number int
	money  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var st sheetStyles
	var err error

	// Column header style: bold, white text, charcoal background, centered.
	st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}

	st.text, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return st, fmt.Errorf("create text style: %w", err)
	}

	st.number, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 2, // 0.00
	})
	if err != nil {
		return st, fmt.Errorf("create number style: %w", err)
	}

	st.money, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return st, fmt.Errorf("create money style: %w", err)
	}
	return st, nil
}

func writeSheet(f *excelize.File, name string, s Sheet, st sheetStyles) error {
	for i, c := range s.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if c.Width > 0 {
			if err := f.SetColWidth(name, col, col, c.Width); err != nil {
				return fmt.Errorf("set col width %s: %w", col, err)
			}
		}
		cell := col + "1"
		f.SetCellValue(name, cell, sanitizeExcelCell(c.Title))
		f.SetCellStyle(name, cell, cell, st.header)
	}

	for r, row := range s.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			style := st.text
			switch val := v.(type) {
			case nil:
				// blank
			case string:
				f.SetCellValue(name, cell, sanitizeExcelCell(val))
			case float64:
				f.SetCellValue(name, cell, val)
				style = st.number
				if c < len(s.Columns) && s.Columns[c].Money {
					style = st.money
				}
			default:
				f.SetCellValue(name, cell, sanitizeExcelCell(fmt.Sprint(val)))
			}
			f.SetCellStyle(name, cell, cell, style)
		}
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
