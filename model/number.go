package model

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Number is a lenient numeric value used for user-entered dimensions.
// It decodes JSON numbers and numeric strings. Anything else, including
// NaN and infinities, decodes to zero so totals stay defined.
type Number float64

// ParseNumber converts v to a Number, returning zero for values that are
// not finite numbers.
func ParseNumber(v any) Number {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

func (n Number) Float() float64 {
	return float64(n)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = ParseNumber(raw)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return json.Marshal(f)
}
