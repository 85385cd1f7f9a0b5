package interview

import (
	"encoding/json"
	"strconv"
)

// ValueKind discriminates the encoded representations an answer can take.
type ValueKind int

const (
	ValueEmpty  ValueKind = iota // not answered yet
	ValueString                  // encoded string such as "1" or "2"
	ValueInt                     // integer such as a parsed age
	ValueNaN                     // unparseable number, kept as-is
)

// Value is one encoded answer. The zero value is empty.
type Value struct {
	kind ValueKind
	str  string
	num  int
}

// StringValue returns a string-typed encoded value.
func StringValue(s string) Value {
	return Value{kind: ValueString, str: s}
}

// IntValue returns an integer-typed encoded value.
func IntValue(n int) Value {
	return Value{kind: ValueInt, num: n}
}

// NaNValue returns the value stored for an unparseable number.
func NaNValue() Value {
	return Value{kind: ValueNaN}
}

// Kind reports which representation v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty is true for unanswered fields and for the empty string, mirroring
// the falsy check the defaulting rule performs.
func (v Value) IsEmpty() bool {
	return v.kind == ValueEmpty || (v.kind == ValueString && v.str == "")
}

// AsString returns the string payload when v is string-typed.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueString
}

// AsInt returns the integer payload when v is integer-typed.
func (v Value) AsInt() (int, bool) {
	return v.num, v.kind == ValueInt
}

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueInt:
		return strconv.Itoa(v.num)
	case ValueNaN:
		return "NaN"
	default:
		return ""
	}
}

// MarshalJSON encodes v the way the prediction endpoint receives it.
// NaN has no JSON form and is sent as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueString:
		return json.Marshal(v.str)
	case ValueInt:
		return []byte(strconv.Itoa(v.num)), nil
	case ValueNaN:
		return []byte("null"), nil
	default:
		return []byte(`""`), nil
	}
}
