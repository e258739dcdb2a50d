// Package bfast provides a high-performance, self-describing binary
// serialization format for structured application data: records, lists,
// scalars, date/time values, UUIDs, decimal money values, and homogeneous
// numeric arrays.
//
// This package is a convenience wrapper around the cursor, intern, value,
// and frame packages: advanced or fine-grained use goes straight to those
// packages, while Encode/Decode and Encoder/Decoder cover the common case.
//
// # Basic usage
//
//	doc, err := bfast.Encode(value.Object(
//	    value.Pair{Key: "id", Value: value.Int(1)},
//	    value.Pair{Key: "name", Value: value.String("metric")},
//	))
//
//	v, err := bfast.Decode(doc)
package bfast

import (
	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/endian"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/frame"
	"github.com/marcelomarkus/bfast/intern"
	"github.com/marcelomarkus/bfast/internal/options"
	"github.com/marcelomarkus/bfast/value"
	"github.com/marcelomarkus/bfast/wiretag"
)

type config struct {
	compress bool
	limits   value.Limits
}

func defaultConfig() *config {
	return &config{compress: false, limits: value.DefaultLimits()}
}

// Option configures an Encoder or Decoder.
type Option = options.Option[*config]

// WithCompression enables LZ4 frame compression when the uncompressed
// document is at least frame.CompressThreshold bytes.
func WithCompression(enabled bool) Option {
	return options.NoError(func(c *config) { c.compress = enabled })
}

// WithMaxDepth overrides the nesting-depth cap (default value.DefaultMaxDepth).
func WithMaxDepth(n int) Option {
	return options.NoError(func(c *config) { c.limits.MaxDepth = n })
}

// WithMaxElements overrides the total decoded-value cap (default
// value.DefaultMaxElements). Only meaningful for decoding.
func WithMaxElements(n int) Option {
	return options.NoError(func(c *config) { c.limits.MaxElements = n })
}

// Encoder serializes Values into BFAST documents.
//
// Encoders accumulate no state across calls to Encode: every call builds a
// fresh interning table, so interning never leaks bytes across documents.
// Reset exists to make document boundaries explicit in caller code, even
// though there is currently nothing for it to clear.
type Encoder struct {
	cfg *config
}

// NewEncoder creates an Encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg}, nil
}

// Reset marks a document boundary. It is safe to call between Encode calls
// or not at all; Encoder holds no cross-document state to clear.
func (e *Encoder) Reset() {}

// Encode serializes v into a complete BFAST document.
func (e *Encoder) Encode(v value.Value) ([]byte, error) {
	tbl := intern.New()
	if err := value.PrescanKeys(v, tbl); err != nil {
		return nil, err
	}

	w := cursor.NewWriter(endian.GetLittleEndianEngine())
	defer w.Reset()

	if err := value.Encode(w, tbl, v, e.cfg.limits); err != nil {
		return nil, err
	}

	return frame.Encode(tbl, w.Bytes(), frame.EncodeOptions{Compress: e.cfg.compress})
}

// Decoder parses BFAST documents back into Values.
type Decoder struct {
	cfg *config
}

// NewDecoder creates a Decoder configured by opts.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Decoder{cfg: cfg}, nil
}

// Decode parses data, an optionally LZ4-frame-compressed BFAST document,
// into a Value. It fails with errs.ErrTrailingGarbage if bytes remain after
// the top-level value.
func (d *Decoder) Decode(data []byte) (value.Value, error) {
	plain, err := frame.DecodeFraming(data)
	if err != nil {
		return value.Value{}, err
	}

	r := cursor.NewReader(plain, endian.GetLittleEndianEngine())

	tbl, err := frame.ReadHeader(r)
	if err != nil {
		return value.Value{}, err
	}

	v, err := value.Decode(r, tbl, d.cfg.limits)
	if err != nil {
		return value.Value{}, err
	}

	if r.Remaining() != 0 {
		return value.Value{}, errs.AtOffset(r.Offset(), errs.ErrTrailingGarbage)
	}

	return v, nil
}

// Stats summarizes a BFAST document without fully decoding its value body.
type Stats struct {
	// TopLevelTag names the value tag at the start of the document body.
	TopLevelTag string
	// InternedKeys is the number of entries in the document's interning
	// table (repeated entries each count).
	InternedKeys int
	// Compressed reports whether the document was LZ4-frame-compressed.
	Compressed bool
}

// Stats reports the top-level tag, interning table size, and compression
// framing of data without fully decoding the value body.
func (d *Decoder) Stats(data []byte) (Stats, error) {
	compressed := !(len(data) >= 2 && data[0] == 0x42 && data[1] == 0x46)

	plain, err := frame.DecodeFraming(data)
	if err != nil {
		return Stats{}, err
	}

	r := cursor.NewReader(plain, endian.GetLittleEndianEngine())

	tbl, err := frame.ReadHeader(r)
	if err != nil {
		return Stats{}, err
	}

	tagByte, err := r.PeekU8()
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TopLevelTag:  wiretag.Tag(tagByte).String(),
		InternedKeys: tbl.Len(),
		Compressed:   compressed,
	}, nil
}

// Encode serializes v into a BFAST document using default options, except
// for any supplied opts.
func Encode(v value.Value, opts ...Option) ([]byte, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(v)
}

// Decode parses data into a Value using default options, except for any
// supplied opts.
func Decode(data []byte, opts ...Option) (value.Value, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return value.Value{}, err
	}

	return dec.Decode(data)
}
