package frame

import (
	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/endian"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/intern"
)

// EncodeOptions controls framing-layer behaviour.
type EncodeOptions struct {
	// Compress requests LZ4 frame compression when the uncompressed
	// document is at least CompressThreshold bytes.
	Compress bool
}

// Encode assembles tbl's header and the already value-codec-encoded body
// into one BFAST document, optionally LZ4-frame-compressing the result per
// opts.
func Encode(tbl *intern.Table, body []byte, opts EncodeOptions) ([]byte, error) {
	w := cursor.NewWriter(endian.GetLittleEndianEngine())
	defer w.Reset()

	if err := WriteHeader(w, tbl, opts.Compress); err != nil {
		return nil, err
	}
	w.WriteBytes(body)

	doc := append([]byte(nil), w.Bytes()...)

	if opts.Compress && len(doc) >= CompressThreshold {
		return Compress(doc)
	}

	return doc, nil
}

// DecodeFraming inspects data's leading bytes to distinguish an
// uncompressed BFAST document from an LZ4-framed one, decompressing when
// needed. It returns the plain BFAST bytes (header + table + body), ready
// for ReadHeader and the value codec. If neither interpretation succeeds,
// it fails with errs.ErrBadFraming.
func DecodeFraming(data []byte) ([]byte, error) {
	if len(data) >= 2 && data[0] == magicByte1 && data[1] == magicByte2 {
		return data, nil
	}

	plain, err := Decompress(data)
	if err != nil {
		return nil, errs.ErrBadFraming
	}
	if len(plain) < 2 || plain[0] != magicByte1 || plain[1] != magicByte2 {
		return nil, errs.ErrBadFraming
	}

	return plain, nil
}
