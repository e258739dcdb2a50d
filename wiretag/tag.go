// Package wiretag is the definitive enumeration of BFAST's value tags and
// their bit layouts (component C2 of the format).
//
// A tag is a single octet. The upper nibble identifies the family; the
// lower nibble may carry a value or selector. The constants below are the
// normative byte assignments.
package wiretag

// Tag identifies the type of value that follows in the byte stream.
type Tag byte

const (
	Null       Tag = 0x10
	BoolFalse  Tag = 0x20
	BoolTrue   Tag = 0x21
	Int64      Tag = 0x38 // overlaps the SmallInt family's nibble range; see IsSmallInt.
	Float64    Tag = 0x40
	String     Tag = 0x50
	List       Tag = 0x60
	ObjectOpen Tag = 0x70
	ObjectEnd  Tag = 0x7F
	ByteString Tag = 0x80
	FloatArray Tag = 0x90
	Timestamp  Tag = 0xD1
	Date       Tag = 0xD2
	Time       Tag = 0xD3
	UUID       Tag = 0xD4
	Decimal    Tag = 0xD5
)

// smallIntLo and smallIntHi bound the SmallInt tag family, tag = smallIntLo + n
// for n in [0, 15]. Int64 (0x38) sits inside this numeric range but is not a
// member of the family; callers MUST test for exact equality with Int64
// before treating a tag as SmallInt. See IsSmallInt.
const (
	smallIntLo Tag = 0x30
	smallIntHi Tag = 0x3F
)

// SmallInt returns the tag for the small unsigned integer n, which must be
// in [0, 15] and not 8: SmallInt(8) yields 0x38, which is the Int64 tag, not
// a SmallInt. The caller is responsible for ensuring n is in range; SmallInt
// does not mask or validate it.
func SmallInt(n uint8) Tag {
	return smallIntLo + Tag(n)
}

// IsSmallInt reports whether t is a SmallInt tag. It tests for exact
// equality with Int64 first, since Int64 (0x38) lies inside the SmallInt
// nibble range but is a distinct family.
func IsSmallInt(t Tag) bool {
	if t == Int64 {
		return false
	}

	return t >= smallIntLo && t <= smallIntHi
}

// SmallIntValue extracts the integer value [0, 15] carried by a SmallInt
// tag. The caller must have already confirmed IsSmallInt(t).
func SmallIntValue(t Tag) uint8 {
	return uint8(t - smallIntLo)
}

// HasLengthPrefixedPayload reports whether the tag is followed by a 4-byte
// little-endian length and then that many bytes of payload, as is the case
// for String, ByteString, and the special date/time/identifier tags.
func HasLengthPrefixedPayload(t Tag) bool {
	switch t {
	case String, ByteString, Timestamp, Date, Time, UUID, Decimal:
		return true
	default:
		return false
	}
}

// IsKnown reports whether t is a tag defined by the catalogue, i.e. whether
// a decoder should accept it as a value head rather than fail with
// UnknownTag. ObjectEnd is a sentinel, never a value head, so it is
// excluded here and checked separately by the value codec.
func IsKnown(t Tag) bool {
	if IsSmallInt(t) {
		return true
	}

	switch t {
	case Null, BoolFalse, BoolTrue, Int64, Float64, String, List, ObjectOpen,
		ByteString, FloatArray, Timestamp, Date, Time, UUID, Decimal:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	if IsSmallInt(t) {
		return "SmallInt"
	}

	switch t {
	case Null:
		return "Null"
	case BoolFalse:
		return "BoolFalse"
	case BoolTrue:
		return "BoolTrue"
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	case String:
		return "String"
	case List:
		return "List"
	case ObjectOpen:
		return "ObjectOpen"
	case ObjectEnd:
		return "ObjectEnd"
	case ByteString:
		return "ByteString"
	case FloatArray:
		return "FloatArray"
	case Timestamp:
		return "Timestamp"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case UUID:
		return "UUID"
	case Decimal:
		return "Decimal"
	default:
		return "Unknown"
	}
}
