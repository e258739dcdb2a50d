// Package frame implements BFAST's framing layer (component C5): the fixed
// 6-byte header, the interning table that follows it, and the LZ4 frame
// compression/auto-detection wrapper.
//
// Compression uses the frame API of github.com/pierrec/lz4/v4 rather than
// its block API, since decode-time auto-detection depends on a
// self-describing frame stream (magic bytes, optional content size) rather
// than a bare compressed block.
package frame

import (
	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/intern"
)

const (
	magicByte1 = 0x42 // 'B'
	magicByte2 = 0x46 // 'F'
	version    = 0x01
)

// flagCompressionHint is an informational bit: decode never relies on it,
// since framing is always detected from the leading magic bytes.
const flagCompressionHint byte = 1 << 0

// flagEndiannessReserved is bit 1 of the flags byte, reserved for a future
// version's use. Encoders MUST write zero; decoders MUST reject a non-zero
// value until a future version defines its meaning.
const flagEndiannessReserved byte = 1 << 1

// WriteHeader writes the 6-byte fixed header, then tbl's interning table,
// to w. compressionHint only sets the header's informational flag bit.
func WriteHeader(w *cursor.WriteCursor, tbl *intern.Table, compressionHint bool) error {
	w.WriteU8(magicByte1)
	w.WriteU8(magicByte2)

	var flags byte
	if compressionHint {
		flags |= flagCompressionHint
	}
	w.WriteU8(flags)
	w.WriteU8(version)

	return tbl.WriteTable(w)
}

// ReadHeader validates the magic bytes and version and materialises the
// interning table that follows them. r must already be positioned at an
// uncompressed BFAST document (see DecodeFraming).
func ReadHeader(r *cursor.ReadCursor) (*intern.Table, error) {
	start := r.Offset()

	b1, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	b2, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if b1 != magicByte1 || b2 != magicByte2 {
		return nil, errs.AtOffset(start, errs.ErrBadFraming)
	}

	flagsOffset := r.Offset()
	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if flags&flagEndiannessReserved != 0 {
		return nil, errs.AtOffset(flagsOffset, errs.ErrBadVersion)
	}

	verOffset := r.Offset()
	ver, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if ver != version {
		return nil, errs.AtOffset(verOffset, errs.ErrBadVersion)
	}

	return intern.ReadTable(r)
}
