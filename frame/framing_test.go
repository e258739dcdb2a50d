package frame_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/frame"
	"github.com/marcelomarkus/bfast/intern"
)

func TestEncodeDecodeFramingUncompressed(t *testing.T) {
	tbl := intern.New()
	body := []byte{0x31} // SmallInt(1)

	doc, err := frame.Encode(tbl, body, frame.EncodeOptions{})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte{0x42, 0x46}))

	plain, err := frame.DecodeFraming(doc)
	require.NoError(t, err)
	require.Equal(t, doc, plain)
}

func TestEncodeDecodeFramingCompressed(t *testing.T) {
	tbl := intern.New()
	body := bytes.Repeat([]byte{0x31}, 200)

	doc, err := frame.Encode(tbl, body, frame.EncodeOptions{Compress: true})
	require.NoError(t, err)
	require.True(t, frame.IsLZ4Framed(doc))

	plain, err := frame.DecodeFraming(doc)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(plain, []byte{0x42, 0x46}))
}

func TestDecodeFramingBadInput(t *testing.T) {
	_, err := frame.DecodeFraming([]byte{0x01, 0x02, 0x03, 0x04})
	require.ErrorIs(t, err, errs.ErrBadFraming)
}

func TestParallelChunkedCompressionRoundTrip(t *testing.T) {
	tbl := intern.New()
	body := bytes.Repeat([]byte{0xAB}, 2<<20) // 2 MiB, crosses ParallelThreshold

	doc, err := frame.Encode(tbl, body, frame.EncodeOptions{Compress: true})
	require.NoError(t, err)
	require.True(t, frame.IsLZ4Framed(doc))

	plain, err := frame.DecodeFraming(doc)
	require.NoError(t, err)

	tail := plain[6:] // past the fixed header; table is empty for this doc
	require.Equal(t, body, tail)
}
