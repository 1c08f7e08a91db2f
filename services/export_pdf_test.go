package services

import (
	"testing"
)

func TestGenerateQuotePDF_BothAudiences(t *testing.T) {
	client, contractor := buildBoth(t, sampleQuote())

	for _, wb := range []Workbook{client, contractor} {
		result, err := GenerateQuotePDF(wb)
		if err != nil {
			t.Fatalf("GenerateQuotePDF(%s) error = %v", wb.Audience, err)
		}
		if len(result) < 5 || string(result[:5]) != "%PDF-" {
			t.Errorf("%s: result does not start with PDF header", wb.Audience)
		}
	}
}

func TestGenerateQuotePDF_EmptySheets(t *testing.T) {
	result, err := GenerateQuotePDF(Workbook{Name: "empty", Title: "Empty", Audience: AudienceClient})
	if err != nil {
		t.Fatalf("GenerateQuotePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateQuotePDF() returned empty bytes")
	}
}

func TestColumnSizes(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		expect  []int
	}{
		{"none", nil, nil},
		{"two", []Column{{Width: 28}, {Width: 40}}, []int{6, 6}},
		{"eight", []Column{{Width: 30}, {Width: 10}, {Width: 48}, {Width: 8}, {Width: 10}, {Width: 16}, {Width: 18}, {Width: 18}},
			[]int{1, 1, 5, 1, 1, 1, 1, 1}},
		{"seven", []Column{{Width: 30}, {Width: 16}, {Width: 8}, {Width: 10}, {Width: 16}, {Width: 18}, {Width: 36}},
			[]int{1, 1, 1, 1, 1, 1, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := columnSizes(Sheet{Columns: tt.columns})
			if len(got) != len(tt.expect) {
				t.Fatalf("columnSizes() = %v, want %v", got, tt.expect)
			}
			sum := 0
			for i := range got {
				sum += got[i]
				if got[i] != tt.expect[i] {
					t.Errorf("columnSizes() = %v, want %v", got, tt.expect)
					break
				}
			}
			if len(got) > 0 && sum != gridColumns {
				t.Errorf("sizes sum to %d", sum)
			}
		})
	}
}
