package query

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the shape carried by a Value.
type Kind uint8

const (
	// KindAbsent means the field carries no value at all.
	KindAbsent Kind = iota
	// KindNull is an explicit null.
	KindNull
	// KindText is a string value.
	KindText
	// KindNumber is a numeric value.
	KindNumber
	// KindUnsupported marks a filter value of a shape the engine does not
	// understand (booleans, lists, objects). Filters holding it are skipped.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "unsupported"
	}
}

// Value is an attribute or filter value.
// The zero Value is Absent.
type Value struct {
	kind Kind
	text string
	num  float64
	raw  any
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Null returns an explicit null.
func Null() Value { return Value{kind: KindNull} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a float.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Int wraps an integer as a Number.
func Int(n int64) Value { return Value{kind: KindNumber, num: float64(n)} }

// Unsupported records a value of unknown shape so it can be reported.
func Unsupported(raw any) Value { return Value{kind: KindUnsupported, raw: raw} }

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsNullish reports whether v is absent or null.
func (v Value) IsNullish() bool { return v.kind == KindAbsent || v.kind == KindNull }

// Raw returns the original payload of an unsupported value.
func (v Value) Raw() any { return v.raw }

// AsText returns the string payload and whether v is text.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// String renders the value the way it is matched by text filters.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// Coerce converts v to a finite number. Text is parsed after trimming
// surrounding whitespace; anything else that is not a Number fails.
func (v Value) Coerce() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, !math.IsNaN(v.num) && !math.IsInf(v.num, 0)
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
