// Package cursor implements BFAST's byte cursor (component C1): a
// bounds-checked read/write abstraction over a byte buffer with
// little/big-endian primitives and UTF-8 validation.
//
// ReadCursor wraps an immutable slice and an advancing offset; WriteCursor
// wraps an append-only, growing buffer. WriteCursor's growth strategy comes
// from its pooled pool.ByteBuffer: Grow adds 16KiB at a time up to 64KiB of
// capacity and 25% of capacity beyond that; it does not double.
package cursor

import (
	"unicode/utf8"

	"github.com/marcelomarkus/bfast/endian"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/internal/pool"
)

// ReadCursor reads primitives from an immutable byte slice, advancing an
// internal offset. Every read method fails with errs.ErrTruncated when
// fewer bytes remain than requested.
//
// A ReadCursor is not safe for concurrent use.
type ReadCursor struct {
	data   []byte
	offset int
	engine endian.EndianEngine
}

// NewReader creates a ReadCursor over data. engine is stored on the cursor,
// but the read methods do not consult it: each one uses the byte order its
// name states (LE or BE).
func NewReader(data []byte, engine endian.EndianEngine) *ReadCursor {
	return &ReadCursor{data: data, engine: engine}
}

// Offset returns the current read offset, used to annotate errors with the
// byte position at which they were detected.
func (r *ReadCursor) Offset() int { return r.offset }

// Remaining returns the number of unread bytes.
func (r *ReadCursor) Remaining() int { return len(r.data) - r.offset }

// Len returns the total length of the underlying slice.
func (r *ReadCursor) Len() int { return len(r.data) }

func (r *ReadCursor) need(n int) error {
	if r.Remaining() < n {
		return errs.AtOffset(r.offset, errs.ErrTruncated)
	}

	return nil
}

// PeekU8 returns the next byte without advancing the offset.
func (r *ReadCursor) PeekU8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}

	return r.data[r.offset], nil
}

// ReadU8 reads and advances past a single byte.
func (r *ReadCursor) ReadU8() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.offset]
	r.offset++

	return b, nil
}

// ReadU16LE reads a little-endian uint16 regardless of the cursor's
// configured engine; used for the fixed little-endian header fields.
func (r *ReadCursor) ReadU16LE() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint16(r.data[r.offset:])
	r.offset += 2

	return v, nil
}

// ReadU16BE reads a big-endian uint16, used only for the "BF" magic word
// comparison convenience.
func (r *ReadCursor) ReadU16BE() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := endian.GetBigEndianEngine().Uint16(r.data[r.offset:])
	r.offset += 2

	return v, nil
}

// ReadU32LE reads a little-endian uint32.
func (r *ReadCursor) ReadU32LE() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint32(r.data[r.offset:])
	r.offset += 4

	return v, nil
}

// ReadI64LE reads a little-endian signed int64.
func (r *ReadCursor) ReadI64LE() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(endian.GetLittleEndianEngine().Uint64(r.data[r.offset:])) //nolint:gosec
	r.offset += 8

	return v, nil
}

// ReadF64LE reads a little-endian IEEE-754 binary64 float.
func (r *ReadCursor) ReadF64LE() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := endian.GetLittleEndianEngine().Uint64(r.data[r.offset:])
	r.offset += 8

	return bitsToFloat64(bits), nil
}

// ReadBytes returns the next n bytes. The returned slice aliases the
// underlying data and must not be retained past the cursor's lifetime if
// the caller mutates it.
func (r *ReadCursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errs.AtOffset(r.offset, errs.ErrTruncated)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n

	return b, nil
}

// ReadUTF8 reads n bytes and validates them as UTF-8, returning a copy as
// a string. Fails with errs.ErrInvalidUTF8 if the bytes are not valid.
func (r *ReadCursor) ReadUTF8(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errs.AtOffset(r.offset-n, errs.ErrInvalidUTF8)
	}

	return string(b), nil
}

// WriteCursor appends primitives to a growing, pooled byte buffer. Growth
// is delegated to pool.ByteBuffer (16KiB steps for small buffers, 25% of
// capacity for larger ones), not doubling.
//
// A WriteCursor is not safe for concurrent use.
type WriteCursor struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a WriteCursor backed by a pooled buffer. engine is
// stored on the cursor, but the write methods do not consult it: each one
// writes little-endian, as its name states.
func NewWriter(engine endian.EndianEngine) *WriteCursor {
	return &WriteCursor{buf: pool.GetBlobBuffer(), engine: engine}
}

// Reserve pre-grows the internal buffer to hold at least n more bytes
// without reallocating, mirroring pool.ByteBuffer.Grow.
func (w *WriteCursor) Reserve(n int) { w.buf.Grow(n) }

// WriteU8 appends a single byte.
func (w *WriteCursor) WriteU8(b byte) { w.buf.MustWrite([]byte{b}) }

// WriteU16LE appends a little-endian uint16.
func (w *WriteCursor) WriteU16LE(v uint16) {
	w.buf.Grow(2)
	tmp := [2]byte{}
	endian.GetLittleEndianEngine().PutUint16(tmp[:], v)
	w.buf.MustWrite(tmp[:])
}

// WriteU32LE appends a little-endian uint32.
func (w *WriteCursor) WriteU32LE(v uint32) {
	w.buf.Grow(4)
	tmp := [4]byte{}
	endian.GetLittleEndianEngine().PutUint32(tmp[:], v)
	w.buf.MustWrite(tmp[:])
}

// WriteI64LE appends a little-endian signed int64.
func (w *WriteCursor) WriteI64LE(v int64) {
	w.buf.Grow(8)
	tmp := [8]byte{}
	endian.GetLittleEndianEngine().PutUint64(tmp[:], uint64(v)) //nolint:gosec
	w.buf.MustWrite(tmp[:])
}

// WriteF64LE appends a little-endian IEEE-754 binary64 float.
func (w *WriteCursor) WriteF64LE(v float64) {
	w.buf.Grow(8)
	tmp := [8]byte{}
	endian.GetLittleEndianEngine().PutUint64(tmp[:], float64ToBits(v))
	w.buf.MustWrite(tmp[:])
}

// WriteBytes appends raw bytes.
func (w *WriteCursor) WriteBytes(b []byte) {
	w.buf.Grow(len(b))
	w.buf.MustWrite(b)
}

// WriteUTF8 appends the raw UTF-8 bytes of s (no length prefix; callers
// write their own length field via WriteU32LE beforehand).
func (w *WriteCursor) WriteUTF8(s string) {
	w.buf.Grow(len(s))
	w.buf.MustWrite([]byte(s))
}

// Bytes returns the encoded data. The returned slice shares the underlying
// buffer with the cursor; callers take ownership only after Reset is not
// called again.
func (w *WriteCursor) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *WriteCursor) Len() int { return w.buf.Len() }

// Reset returns the internal buffer to the pool. The cursor must not be
// used again afterward.
func (w *WriteCursor) Reset() {
	if w.buf != nil {
		pool.PutBlobBuffer(w.buf)
		w.buf = nil
	}
}
