// Package value implements BFAST's value codec (component C4): the host
// representation of BFAST's value algebra, and the recursive encode/decode
// logic over it.
//
// Value is a closed tagged union rather than an interface, favoring
// concrete, allocation-lean types over reflection or `any`. Construction
// goes through the typed constructors (Null, Bool, Int, ...); callers
// inspect a Value with its Kind() and the matching AsXxx accessor.
package value

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind discriminates the member of the value algebra a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
	KindByteString
	KindFloatArray
	KindTimestamp
	KindDate
	KindTime
	KindUUID
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	case KindByteString:
		return "ByteString"
	case KindFloatArray:
		return "FloatArray"
	case KindTimestamp:
		return "Timestamp"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindUUID:
		return "UUID"
	case KindDecimal:
		return "Decimal"
	default:
		return "Unknown"
	}
}

// Pair is one key-value entry of an Object, in wire order.
type Pair struct {
	Key   string
	Value Value
}

// Value is an immutable BFAST value. The zero value is Null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	str     string
	list    []Value
	object  []Pair
	bytes   []byte
	floats  []float64
	uid     uuid.UUID
	dec     decimal.Decimal
}

// Kind reports which member of the value algebra v holds.
func (v Value) Kind() Kind { return v.kind }

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int returns a signed 64-bit integer value. The encoder chooses the
// SmallInt or Int64 wire representation based on the magnitude of n.
func Int(n int64) Value { return Value{kind: KindInt, integer: n} }

// Float returns an IEEE-754 binary64 value.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// String returns a UTF-8 string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List returns an ordered list value. items is retained, not copied.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Object returns an object value from pairs, in iteration order. pairs is
// retained, not copied.
func Object(pairs ...Pair) Value { return Value{kind: KindObject, object: pairs} }

// ByteString returns an opaque byte-string value. b is retained, not copied.
func ByteString(b []byte) Value { return Value{kind: KindByteString, bytes: b} }

// FloatArray returns a dense, homogeneous float64 array value. f is
// retained, not copied.
func FloatArray(f []float64) Value { return Value{kind: KindFloatArray, floats: f} }

// Timestamp returns an instant-in-time value, normalised to UTC when the
// Value is constructed.
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, str: t.UTC().Format(time.RFC3339Nano)} }

// Date returns a calendar-date value.
func Date(t time.Time) Value { return Value{kind: KindDate, str: t.Format("2006-01-02")} }

// TimeOfDay returns a time-of-day value.
func TimeOfDay(t time.Time) Value { return Value{kind: KindTime, str: t.Format("15:04:05.999999999")} }

// UUID returns a 128-bit identifier value.
func UUID(u uuid.UUID) Value { return Value{kind: KindUUID, uid: u} }

// Decimal returns an arbitrary-precision decimal value.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

// AsBool returns the boolean held by v and true, or false, false if v is not
// a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}

	return v.boolean, true
}

// AsInt returns the integer held by v and true, or 0, false if v is not an
// Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}

	return v.integer, true
}

// AsFloat returns the float held by v and true, or 0, false if v is not a
// Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}

	return v.float, true
}

// AsString returns the string held by v and true if v is a String, Date,
// Time, or a normalised Timestamp string (see AsTime for the parsed form);
// otherwise "", false.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString, KindDate, KindTime, KindTimestamp:
		return v.str, true
	default:
		return "", false
	}
}

// AsList returns the elements held by v and true, or nil, false if v is not
// a List.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}

	return v.list, true
}

// AsObject returns the key-value pairs held by v and true, or nil, false if
// v is not an Object.
func (v Value) AsObject() ([]Pair, bool) {
	if v.kind != KindObject {
		return nil, false
	}

	return v.object, true
}

// AsByteString returns the bytes held by v and true, or nil, false if v is
// not a ByteString.
func (v Value) AsByteString() ([]byte, bool) {
	if v.kind != KindByteString {
		return nil, false
	}

	return v.bytes, true
}

// AsFloatArray returns the floats held by v and true, or nil, false if v is
// not a FloatArray.
func (v Value) AsFloatArray() ([]float64, bool) {
	if v.kind != KindFloatArray {
		return nil, false
	}

	return v.floats, true
}

// AsTime parses the ISO-8601 string held by a Timestamp, Date, or Time
// value back into a time.Time. ok is false for any other Kind or if the
// stored string fails to parse.
func (v Value) AsTime() (t time.Time, ok bool) {
	var err error

	switch v.kind {
	case KindTimestamp:
		t, err = time.Parse(time.RFC3339Nano, v.str)
	case KindDate:
		t, err = time.Parse("2006-01-02", v.str)
	case KindTime:
		t, err = time.Parse("15:04:05.999999999", v.str)
	default:
		return time.Time{}, false
	}

	return t, err == nil
}

// AsUUID returns the UUID held by v and true, or the zero UUID, false if v
// is not a UUID.
func (v Value) AsUUID() (uuid.UUID, bool) {
	if v.kind != KindUUID {
		return uuid.UUID{}, false
	}

	return v.uid, true
}

// AsDecimal returns the decimal held by v and true, or the zero Decimal,
// false if v is not a Decimal.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	if v.kind != KindDecimal {
		return decimal.Decimal{}, false
	}

	return v.dec, true
}
