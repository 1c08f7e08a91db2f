package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"quotebuilder/model"
)

// RowError is a field-level problem on one row of an uploaded schedule.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RoomImportResult is returned after parsing a room schedule.
type RoomImportResult struct {
	TotalRows int          `json:"total_rows"`
	ValidRows int          `json:"valid_rows"`
	ErrorRows int          `json:"error_rows"`
	Errors    []RowError   `json:"errors"`
	Rooms     []model.Room `json:"rooms"`
	FileName  string       `json:"-"`
}

// Room schedule columns, matched case-insensitively.
const (
	colRoomName  = "room name"
	colLength    = "length"
	colWidth     = "width"
	colHeight    = "height"
	colDoors     = "doors"
	colWindows   = "windows"
	colBlockType = "block type"
	colThickness = "thickness"
)

var roomColumns = []string{colRoomName, colLength, colWidth, colHeight, colDoors, colWindows, colBlockType, colThickness}

// RoomScheduleHeaders are the column titles of a room schedule template.
func RoomScheduleHeaders() []string {
	return []string{"Room Name *", "Length", "Width", "Height", "Doors", "Windows", "Block Type", "Thickness"}
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeaders returns the room column for every uploaded header, or "" when
// the header is not recognized.
func mapHeaders(headers []string) []string {
	known := make(map[string]bool, len(roomColumns))
	for _, c := range roomColumns {
		known[c] = true
	}
	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if known[norm] {
			mapped[i] = norm
		}
	}
	return mapped
}

// ParseRoomSchedule parses a CSV or XLSX room schedule. Rows without a room
// name are rejected; malformed numbers are read as zero and reported.
func ParseRoomSchedule(file io.Reader, fileName string) (*RoomImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columns := mapHeaders(headers)
	hasName := false
	for _, c := range columns {
		if c == colRoomName {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("missing required column %q", "Room Name")
	}

	result := &RoomImportResult{TotalRows: len(dataRows), FileName: fileName}
	errorRows := make(map[int]bool)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		values := make(map[string]string, len(columns))
		for colIdx, key := range columns {
			if key == "" || colIdx >= len(row) {
				continue
			}
			values[key] = strings.TrimSpace(row[colIdx])
		}

		if isBlankRow(values) {
			result.TotalRows--
			continue
		}

		var rowErrors []RowError
		number := func(key, label string) model.Number {
			v := values[key]
			if v == "" {
				return 0
			}
			f, err := cast.ToFloat64E(v)
			if err != nil || f < 0 {
				rowErrors = append(rowErrors, RowError{Row: rowNum, Field: label, Message: fmt.Sprintf("%s %q is not a valid number, using 0", label, v)})
				return 0
			}
			return model.ParseNumber(f)
		}

		room := model.Room{
			Name:      values[colRoomName],
			Length:    number(colLength, "Length"),
			Width:     number(colWidth, "Width"),
			Height:    number(colHeight, "Height"),
			BlockType: values[colBlockType],
			Thickness: number(colThickness, "Thickness"),
		}
		if n := number(colDoors, "Doors"); n > 0 {
			room.Doors = []model.Opening{{Count: n}}
		}
		if n := number(colWindows, "Windows"); n > 0 {
			room.Windows = []model.Opening{{Count: n}}
		}

		if room.Name == "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Field: "Room Name", Message: "Room Name is required"})
		} else {
			result.Rooms = append(result.Rooms, room)
		}
		if len(rowErrors) > 0 {
			errorRows[rowNum] = true
			result.Errors = append(result.Errors, rowErrors...)
		}
	}

	result.ErrorRows = len(errorRows)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func isBlankRow(values map[string]string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// GenerateErrorReport creates a downloadable .xlsx file from row errors.
func GenerateErrorReport(errors []RowError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateRoomTemplate creates a blank xlsx room schedule.
func GenerateRoomTemplate() ([]byte, error) {
	wb := Workbook{Name: "Room_Schedule", Sheets: []Sheet{{Name: "Rooms"}}}
	for _, h := range RoomScheduleHeaders() {
		wb.Sheets[0].Columns = append(wb.Sheets[0].Columns, Column{Title: h, Width: 14})
	}
	return WriteXLSX(wb)
}
