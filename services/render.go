package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"quotebuilder/model"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "xlsx" (or "excel") and "pdf". Empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType is the MIME type of the rendered file.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Rendered is one exported quote file.
type Rendered struct {
	FileName string
	Format   Format
	Data     []byte
}

// RenderQuote totals q, projects it for audience and encodes it. A client
// rendering that would expose contractor figures fails with
// ErrConfidentialLeak and produces no bytes.
func RenderQuote(q model.Quote, audience Audience, format Format, generated time.Time) (Rendered, error) {
	prepared, doc, err := Prepare(q)
	if err != nil {
		return Rendered{}, err
	}
	wb, err := BuildWorkbook(prepared, doc, audience, generated)
	if err != nil {
		return Rendered{}, err
	}
	if err := CheckConfidential(wb); err != nil {
		return Rendered{}, err
	}

	var data []byte
	switch format {
	case FormatPDF:
		data, err = GenerateQuotePDF(wb)
	case FormatXLSX:
		data, err = WriteXLSX(wb)
	default:
		return Rendered{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", format, err)
	}
	return Rendered{FileName: wb.FileName("." + string(format)), Format: format, Data: data}, nil
}
