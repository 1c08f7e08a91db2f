package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// gridColumns is the width of the maroto grid.
const gridColumns = 12

// GenerateQuotePDF renders the workbook as a landscape A4 document, one
// titled table per sheet.
func GenerateQuotePDF(wb Workbook) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addTitle(m, wb)
	for _, s := range wb.Sheets {
		sizes := columnSizes(s)
		addSheetHeading(m, s.Name)
		addTableHeader(m, s.Columns, sizes)
		for _, r := range s.Rows {
			addTableRow(m, s.Columns, sizes, r)
		}
		m.AddRows(row.New(6))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addTitle(m core.Maroto, wb Workbook) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(wb.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(12).Add(
				text.New(wb.Audience.Label()+" quotation", props.Text{
					Size:  9,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addSheetHeading(m core.Maroto, name string) {
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(
				text.New(name, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Left}),
			),
		),
	)
}

// columnSizes spreads the 12-column grid over the sheet columns, giving
// the remainder to the widest column.
func columnSizes(s Sheet) []int {
	n := len(s.Columns)
	if n == 0 {
		return nil
	}
	if n > gridColumns {
		n = gridColumns
	}
	sizes := make([]int, n)
	base := gridColumns / n
	widest := 0
	for i := 0; i < n; i++ {
		sizes[i] = base
		if s.Columns[i].Width > s.Columns[widest].Width {
			widest = i
		}
	}
	sizes[widest] += gridColumns - base*n
	return sizes
}

func addTableHeader(m core.Maroto, columns []Column, sizes []int) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	r := row.New(8)
	for i, size := range sizes {
		r.Add(col.New(size).Add(text.New(columns[i].Title, headerText)).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

func addTableRow(m core.Maroto, columns []Column, sizes []int, cells []any) {
	left := props.Text{Size: 7, Align: align.Left}
	right := props.Text{Size: 7, Align: align.Right}

	r := row.New(7)
	for i, size := range sizes {
		var v any
		if i < len(cells) {
			v = cells[i]
		}
		switch val := v.(type) {
		case nil:
			r.Add(col.New(size))
		case float64:
			s := formatQty(val)
			if columns[i].Money {
				s = FormatKES(val)
			}
			r.Add(col.New(size).Add(text.New(s, right)))
		default:
			r.Add(col.New(size).Add(text.New(fmt.Sprint(val), left)))
		}
	}
	m.AddRows(r)
}
