package table

import (
	"strconv"
)

// ValueKind tags the variant held by a Value
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
)

// String returns the lowercase name of the kind
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell: Number, Text or Missing.
// The zero Value is Missing.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Missing returns the missing marker
func Missing() Value {
	return Value{}
}

// Number returns a present numeric value
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text returns a present textual value. Empty text is still present;
// parsing decides what counts as missing.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports which variant the value holds
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether the value is the missing marker
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumber reports whether the value is a present number
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Float returns the numeric payload and whether the value is a number
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value the way it is shown in reports and charts.
// Missing renders as "NaN".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return "NaN"
	}
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	}
	return true
}
