package value

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/intern"
	"github.com/marcelomarkus/bfast/internal/pool"
	"github.com/marcelomarkus/bfast/wiretag"
)

// DefaultMaxDepth is the recommended nesting-depth cap.
const DefaultMaxDepth = 512

// DefaultMaxElements is the recommended total decoded-value cap: 16 Mi
// values per document.
const DefaultMaxElements = 16 * 1024 * 1024

// Limits bounds recursion depth and total decoded-element count for one
// encode or decode call.
type Limits struct {
	MaxDepth    int
	MaxElements int
}

// DefaultLimits returns the reference codec's recommended limits.
func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth, MaxElements: DefaultMaxElements}
}

var decimalGrammar = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)

// PrescanKeys walks v and interns every object-key string it contains, in
// first-seen order, without writing anything. Callers use this to build a
// document's complete interning table before writing the header.
func PrescanKeys(v Value, tbl *intern.Table) error {
	switch v.Kind() {
	case KindList:
		for _, e := range v.list {
			if err := PrescanKeys(e, tbl); err != nil {
				return err
			}
		}
	case KindObject:
		for _, p := range v.object {
			if _, err := tbl.Intern(p.Key); err != nil {
				return errs.AtPath(p.Key, err)
			}
			if err := PrescanKeys(p.Value, tbl); err != nil {
				return err
			}
		}
	}

	return nil
}

// Encode writes v's recursively-encoded payload to w, resolving object keys
// against tbl (already populated by PrescanKeys). It enforces limits.MaxDepth
// but not limits.MaxElements: that cap exists to protect decoders from
// adversarial input, not encoders from their own caller's data.
func Encode(w *cursor.WriteCursor, tbl *intern.Table, v Value, limits Limits) error {
	return encodeValue(w, tbl, v, "$", 0, limits)
}

func encodeValue(w *cursor.WriteCursor, tbl *intern.Table, v Value, path string, depth int, limits Limits) error {
	if depth > limits.MaxDepth {
		return errs.AtPath(path, errs.ErrDepthExceeded)
	}

	switch v.Kind() {
	case KindNull:
		w.WriteU8(byte(wiretag.Null))
	case KindBool:
		if v.boolean {
			w.WriteU8(byte(wiretag.BoolTrue))
		} else {
			w.WriteU8(byte(wiretag.BoolFalse))
		}
	case KindInt:
		encodeInt(w, v.integer)
	case KindFloat:
		w.WriteU8(byte(wiretag.Float64))
		w.WriteF64LE(v.float)
	case KindString:
		w.WriteU8(byte(wiretag.String))
		w.WriteU32LE(uint32(len(v.str))) //nolint:gosec
		w.WriteUTF8(v.str)
	case KindByteString:
		w.WriteU8(byte(wiretag.ByteString))
		w.WriteU32LE(uint32(len(v.bytes))) //nolint:gosec
		w.WriteBytes(v.bytes)
	case KindFloatArray:
		encodeFloatArray(w, v.floats)
	case KindList:
		return encodeList(w, tbl, v.list, path, depth, limits)
	case KindObject:
		return encodeObject(w, tbl, v.object, path, depth, limits)
	case KindTimestamp, KindDate, KindTime:
		encodeTextTag(w, tagForTextKind(v.Kind()), v.str)
	case KindUUID:
		encodeTextTag(w, wiretag.UUID, hex.EncodeToString(v.uid[:]))
	case KindDecimal:
		encodeTextTag(w, wiretag.Decimal, v.dec.String())
	default:
		return errs.AtPath(path, errs.ErrUnsupportedType)
	}

	return nil
}

func tagForTextKind(k Kind) wiretag.Tag {
	switch k {
	case KindTimestamp:
		return wiretag.Timestamp
	case KindDate:
		return wiretag.Date
	default:
		return wiretag.Time
	}
}

func encodeInt(w *cursor.WriteCursor, n int64) {
	if n >= 0 && n <= 15 && n != 8 {
		w.WriteU8(byte(wiretag.SmallInt(uint8(n))))
		return
	}
	w.WriteU8(byte(wiretag.Int64))
	w.WriteI64LE(n)
}

func encodeTextTag(w *cursor.WriteCursor, tag wiretag.Tag, s string) {
	w.WriteU8(byte(tag))
	w.WriteU32LE(uint32(len(s))) //nolint:gosec
	w.WriteUTF8(s)
}

func encodeFloatArray(w *cursor.WriteCursor, floats []float64) {
	w.WriteU8(byte(wiretag.FloatArray))
	w.WriteU32LE(uint32(len(floats))) //nolint:gosec
	for _, f := range floats {
		w.WriteF64LE(f)
	}
}

// allFloats reports whether every element of list is a Float value, the
// condition under which the encoder prefers the packed FloatArray tag over
// a general List.
func allFloats(list []Value) bool {
	if len(list) == 0 {
		return false
	}
	for _, e := range list {
		if e.Kind() != KindFloat {
			return false
		}
	}

	return true
}

func encodeList(w *cursor.WriteCursor, tbl *intern.Table, list []Value, path string, depth int, limits Limits) error {
	if allFloats(list) {
		scratch, cleanup := pool.GetFloat64Slice(len(list))
		defer cleanup()
		for i, e := range list {
			scratch[i] = e.float
		}
		encodeFloatArray(w, scratch)

		return nil
	}

	w.WriteU8(byte(wiretag.List))
	w.WriteU32LE(uint32(len(list))) //nolint:gosec
	for i, e := range list {
		if err := encodeValue(w, tbl, e, fmt.Sprintf("%s[%d]", path, i), depth+1, limits); err != nil {
			return err
		}
	}

	return nil
}

func encodeObject(w *cursor.WriteCursor, tbl *intern.Table, pairs []Pair, path string, depth int, limits Limits) error {
	w.WriteU8(byte(wiretag.ObjectOpen))
	for _, p := range pairs {
		id, err := tbl.Intern(p.Key)
		if err != nil {
			return errs.AtPath(path+"."+p.Key, err)
		}
		w.WriteU32LE(id)
		if err := encodeValue(w, tbl, p.Value, path+"."+p.Key, depth+1, limits); err != nil {
			return err
		}
	}
	w.WriteU8(byte(wiretag.ObjectEnd))

	return nil
}

// Decode reads one recursively-encoded value from r, resolving object keys
// against tbl. It enforces both limits.MaxDepth (DepthExceeded) and
// limits.MaxElements (ResourceLimit).
func Decode(r *cursor.ReadCursor, tbl *intern.Table, limits Limits) (Value, error) {
	count := 0

	return decodeValue(r, tbl, 0, &count, limits)
}

func decodeValue(r *cursor.ReadCursor, tbl *intern.Table, depth int, count *int, limits Limits) (Value, error) {
	if depth > limits.MaxDepth {
		return Value{}, errs.AtOffset(r.Offset(), errs.ErrDepthExceeded)
	}

	*count++
	if *count > limits.MaxElements {
		return Value{}, errs.AtOffset(r.Offset(), errs.ErrResourceLimit)
	}

	tagOffset := r.Offset()

	tagByte, err := r.ReadU8()
	if err != nil {
		return Value{}, err
	}
	tag := wiretag.Tag(tagByte)

	switch {
	case tag == wiretag.Null:
		return Null(), nil
	case tag == wiretag.BoolFalse:
		return Bool(false), nil
	case tag == wiretag.BoolTrue:
		return Bool(true), nil
	case tag == wiretag.Int64:
		n, err := r.ReadI64LE()
		if err != nil {
			return Value{}, err
		}

		return Int(n), nil
	case wiretag.IsSmallInt(tag):
		return Int(int64(wiretag.SmallIntValue(tag))), nil
	case tag == wiretag.Float64:
		f, err := r.ReadF64LE()
		if err != nil {
			return Value{}, err
		}

		return Float(f), nil
	case tag == wiretag.String:
		s, err := readLengthPrefixedUTF8(r)
		if err != nil {
			return Value{}, err
		}

		return String(s), nil
	case tag == wiretag.ByteString:
		n, err := r.ReadU32LE()
		if err != nil {
			return Value{}, err
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return Value{}, err
		}

		return ByteString(append([]byte(nil), b...)), nil
	case tag == wiretag.FloatArray:
		return decodeFloatArray(r, count, limits)
	case tag == wiretag.List:
		return decodeList(r, tbl, depth, count, limits)
	case tag == wiretag.ObjectOpen:
		return decodeObject(r, tbl, depth, count, limits)
	case tag == wiretag.Timestamp:
		s, err := readLengthPrefixedUTF8(r)
		if err != nil {
			return Value{}, err
		}
		t, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			return Value{}, errs.AtOffset(tagOffset, fmt.Errorf("%w: %v", errs.ErrBadTemporal, perr))
		}

		return Timestamp(t), nil
	case tag == wiretag.Date:
		s, err := readLengthPrefixedUTF8(r)
		if err != nil {
			return Value{}, err
		}
		t, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return Value{}, errs.AtOffset(tagOffset, fmt.Errorf("%w: %v", errs.ErrBadTemporal, perr))
		}

		return Date(t), nil
	case tag == wiretag.Time:
		s, err := readLengthPrefixedUTF8(r)
		if err != nil {
			return Value{}, err
		}
		t, perr := time.Parse("15:04:05.999999999", s)
		if perr != nil {
			return Value{}, errs.AtOffset(tagOffset, fmt.Errorf("%w: %v", errs.ErrBadTemporal, perr))
		}

		return TimeOfDay(t), nil
	case tag == wiretag.UUID:
		return decodeUUID(r)
	case tag == wiretag.Decimal:
		return decodeDecimal(r)
	default:
		return Value{}, errs.AtOffset(tagOffset, errs.ErrUnknownTag)
	}
}

func readLengthPrefixedUTF8(r *cursor.ReadCursor) (string, error) {
	n, err := r.ReadU32LE()
	if err != nil {
		return "", err
	}

	return r.ReadUTF8(int(n))
}

func decodeFloatArray(r *cursor.ReadCursor, count *int, limits Limits) (Value, error) {
	n, err := r.ReadU32LE()
	if err != nil {
		return Value{}, err
	}

	// The element count is validated against the cursor's remaining bytes
	// before it is used to size an allocation, so pre-sizing here does not
	// admit the untrusted-length amplification the memory policy guards
	// against for List/Object body lengths.
	need := int64(n) * 8
	if need > int64(r.Remaining()) {
		return Value{}, errs.AtOffset(r.Offset(), errs.ErrTruncated)
	}

	*count += int(n)
	if *count > limits.MaxElements {
		return Value{}, errs.AtOffset(r.Offset(), errs.ErrResourceLimit)
	}

	floats := make([]float64, n)
	for i := range floats {
		f, err := r.ReadF64LE()
		if err != nil {
			return Value{}, err
		}
		floats[i] = f
	}

	return FloatArray(floats), nil
}

func decodeList(r *cursor.ReadCursor, tbl *intern.Table, depth int, count *int, limits Limits) (Value, error) {
	n, err := r.ReadU32LE()
	if err != nil {
		return Value{}, err
	}

	var list []Value
	for i := uint32(0); i < n; i++ {
		elem, err := decodeValue(r, tbl, depth+1, count, limits)
		if err != nil {
			return Value{}, err
		}
		list = append(list, elem)
	}

	return List(list...), nil
}

func decodeObject(r *cursor.ReadCursor, tbl *intern.Table, depth int, count *int, limits Limits) (Value, error) {
	var pairs []Pair

	for {
		peek, err := r.PeekU8()
		if err != nil {
			return Value{}, errs.AtOffset(r.Offset(), errs.ErrUnterminatedObject)
		}
		if wiretag.Tag(peek) == wiretag.ObjectEnd {
			_, _ = r.ReadU8()
			break
		}

		id, err := r.ReadU32LE()
		if err != nil {
			return Value{}, unterminatedIfTruncated(r, err)
		}

		key, err := tbl.Lookup(id)
		if err != nil {
			return Value{}, errs.AtOffset(r.Offset(), err)
		}

		val, err := decodeValue(r, tbl, depth+1, count, limits)
		if err != nil {
			return Value{}, unterminatedIfTruncated(r, err)
		}

		replaced := false
		for i := range pairs {
			if pairs[i].Key == key {
				pairs[i].Value = val
				replaced = true
				break
			}
		}
		if !replaced {
			pairs = append(pairs, Pair{Key: key, Value: val})
		}
	}

	return Object(pairs...), nil
}

// unterminatedIfTruncated reclassifies a bare truncation as UnterminatedObject,
// since encountering end-of-buffer mid-pair means the 0x7F sentinel was
// never written, not merely that a length-prefixed payload ran short.
func unterminatedIfTruncated(r *cursor.ReadCursor, err error) error {
	if errors.Is(err, errs.ErrTruncated) {
		return errs.AtOffset(r.Offset(), errs.ErrUnterminatedObject)
	}

	return err
}

func decodeUUID(r *cursor.ReadCursor) (Value, error) {
	n, err := r.ReadU32LE()
	if err != nil {
		return Value{}, err
	}
	if n != 32 {
		return Value{}, errs.AtOffset(r.Offset(), errs.ErrBadUUIDLength)
	}

	s, err := r.ReadUTF8(32)
	if err != nil {
		return Value{}, err
	}

	raw, hexErr := hex.DecodeString(s)
	if hexErr != nil || len(raw) != 16 {
		return Value{}, errs.AtOffset(r.Offset()-32, errs.ErrBadUUIDLength)
	}

	u, uerr := uuid.FromBytes(raw)
	if uerr != nil {
		return Value{}, errs.AtOffset(r.Offset()-32, errs.ErrBadUUIDLength)
	}

	return UUID(u), nil
}

func decodeDecimal(r *cursor.ReadCursor) (Value, error) {
	s, err := readLengthPrefixedUTF8(r)
	if err != nil {
		return Value{}, err
	}

	if !decimalGrammar.MatchString(s) {
		return Value{}, errs.AtOffset(r.Offset()-len(s), errs.ErrBadDecimal)
	}

	d, derr := decimal.NewFromString(s)
	if derr != nil {
		return Value{}, errs.AtOffset(r.Offset()-len(s), errs.ErrBadDecimal)
	}

	return Decimal(d), nil
}
