package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ExtensionKind identifies the variant held by an ExtensionValue.
type ExtensionKind int

const (
	ExtensionString ExtensionKind = iota + 1
	ExtensionNumber
	ExtensionBool
	ExtensionRaw
)

// ExtensionValue is a typed value stored under an unknown quote key.
// Objects, arrays and null are held as raw JSON.
type ExtensionValue struct {
	kind ExtensionKind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage
}

func StringValue(s string) ExtensionValue  { return ExtensionValue{kind: ExtensionString, str: s} }
func NumberValue(n float64) ExtensionValue { return ExtensionValue{kind: ExtensionNumber, num: n} }
func BoolValue(b bool) ExtensionValue      { return ExtensionValue{kind: ExtensionBool, b: b} }

// RawValue keeps an arbitrary JSON document. Invalid JSON is rejected.
func RawValue(raw json.RawMessage) (ExtensionValue, error) {
	if !json.Valid(raw) {
		return ExtensionValue{}, errors.New("extension: invalid json")
	}
	return ExtensionValue{kind: ExtensionRaw, raw: append(json.RawMessage(nil), raw...)}, nil
}

func (v ExtensionValue) Kind() ExtensionKind { return v.kind }

func (v ExtensionValue) String() (string, bool) { return v.str, v.kind == ExtensionString }

func (v ExtensionValue) Number() (float64, bool) { return v.num, v.kind == ExtensionNumber }

func (v ExtensionValue) Bool() (bool, bool) { return v.b, v.kind == ExtensionBool }

func (v ExtensionValue) Raw() (json.RawMessage, bool) { return v.raw, v.kind == ExtensionRaw }

func (v ExtensionValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ExtensionString:
		return json.Marshal(v.str)
	case ExtensionNumber:
		return json.Marshal(v.num)
	case ExtensionBool:
		return json.Marshal(v.b)
	case ExtensionRaw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

func (v *ExtensionValue) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return errors.New("extension: empty value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(trimmed, &bv); err != nil {
			return err
		}
		*v = BoolValue(bv)
	case '{', '[', 'n':
		raw, err := RawValue(trimmed)
		if err != nil {
			return err
		}
		*v = raw
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// Extensions holds quote attributes that have no dedicated field.
type Extensions map[string]ExtensionValue

// ErrKnownField is returned when an extension key shadows a quote field.
var ErrKnownField = errors.New("extension key is a quote field")

// Set stores v under key. Keys naming a quote field are rejected so known
// business data never ends up untyped.
func (x *Extensions) Set(key string, v ExtensionValue) error {
	if key == "" {
		return errors.New("extension: empty key")
	}
	if IsQuoteField(key) {
		return fmt.Errorf("extension %q: %w", key, ErrKnownField)
	}
	if *x == nil {
		*x = Extensions{}
	}
	(*x)[key] = v
	return nil
}

func (x Extensions) Get(key string) (ExtensionValue, bool) {
	v, ok := x[key]
	return v, ok
}

var (
	quoteFieldsOnce sync.Once
	quoteFields     map[string]struct{}
)

// IsQuoteField reports whether key is the JSON name of a Quote field.
func IsQuoteField(key string) bool {
	quoteFieldsOnce.Do(func() {
		quoteFields = map[string]struct{}{}
		t := reflect.TypeOf(quoteAlias{})
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			name, _, _ := strings.Cut(tag, ",")
			if name == "" || name == "-" {
				continue
			}
			quoteFields[name] = struct{}{}
		}
	})
	_, ok := quoteFields[key]
	return ok
}
