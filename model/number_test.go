package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		expect Number
	}{
		{"float", 3.5, 3.5},
		{"int", 4, 4},
		{"numeric string", "12.5", 12.5},
		{"padded string", "  7 ", 7},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNumber(tt.input); got != tt.expect {
				t.Errorf("ParseNumber(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestNumberUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		expect float64
	}{
		{"number", `{"v": 4.25}`, 4.25},
		{"string number", `{"v": "4.25"}`, 4.25},
		{"non numeric string", `{"v": "four"}`, 0},
		{"null", `{"v": null}`, 0},
		{"bool", `{"v": true}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				V Number `json:"v"`
			}
			if err := json.Unmarshal([]byte(tt.json), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.V.Float() != tt.expect {
				t.Errorf("got %v, want %v", out.V, tt.expect)
			}
		})
	}
}
