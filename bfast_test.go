package bfast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelomarkus/bfast"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/value"
)

func TestEncodeDecodeObjectRoundTrip(t *testing.T) {
	v := value.Object(
		value.Pair{Key: "id", Value: value.Int(1)},
		value.Pair{Key: "name", Value: value.String("A")},
	)

	doc, err := bfast.Encode(v)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte{0x42, 0x46}))

	got, err := bfast.Decode(doc)
	require.NoError(t, err)

	pairs, ok := got.AsObject()
	require.True(t, ok)
	require.Len(t, pairs, 2)
}

func TestInterningOrderIsPartOfPayloadSemantics(t *testing.T) {
	// Swapping the two key table entries while
	// keeping the same ids in the body yields a different object.
	doc := []byte{
		0x42, 0x46, 0x00, 0x01, 0x02, 0x00,
		0x02, 'i', 'd',
		0x04, 'n', 'a', 'm', 'e',
		0x70,
		0x00, 0x00, 0x00, 0x00, 0x31,
		0x01, 0x00, 0x00, 0x00, 0x50, 0x01, 0x00, 0x00, 0x00, 'A',
		0x7F,
	}

	got, err := bfast.Decode(doc)
	require.NoError(t, err)
	pairs, ok := got.AsObject()
	require.True(t, ok)
	require.Equal(t, "id", pairs[0].Key)
	require.Equal(t, "name", pairs[1].Key)

	// Swap the two table entries: [02 "id"][04 "name"] -> [04 "name"][02 "id"].
	// The header (6 bytes) and body (everything from offset 14 onward) are
	// unchanged; only the table ordering differs.
	const bodyOffset = 6 + (1 + 2) + (1 + 4)
	swapped := append(append([]byte{}, doc[:6]...),
		append([]byte{0x04, 'n', 'a', 'm', 'e', 0x02, 'i', 'd'}, doc[bodyOffset:]...)...)

	got2, err := bfast.Decode(swapped)
	require.NoError(t, err)
	pairs2, ok := got2.AsObject()
	require.True(t, ok)
	require.Equal(t, "name", pairs2[0].Key)
	require.Equal(t, "id", pairs2[1].Key)
}

func TestCompressionRoundTrip(t *testing.T) {
	v := value.String(string(bytes.Repeat([]byte{'x'}, 500)))

	doc, err := bfast.Encode(v, bfast.WithCompression(true))
	require.NoError(t, err)

	got, err := bfast.Decode(doc)
	require.NoError(t, err)

	s, ok := got.AsString()
	require.True(t, ok)
	require.Len(t, s, 500)
}

func TestTrailingGarbage(t *testing.T) {
	doc, err := bfast.Encode(value.Int(1))
	require.NoError(t, err)

	withGarbage := append(doc, 0xFF)
	_, err = bfast.Decode(withGarbage)
	require.ErrorIs(t, err, errs.ErrTrailingGarbage)
}

func TestDecoderStats(t *testing.T) {
	v := value.Object(value.Pair{Key: "k", Value: value.Int(1)})
	doc, err := bfast.Encode(v)
	require.NoError(t, err)

	dec, err := bfast.NewDecoder()
	require.NoError(t, err)

	stats, err := dec.Stats(doc)
	require.NoError(t, err)
	require.Equal(t, "ObjectOpen", stats.TopLevelTag)
	require.Equal(t, 1, stats.InternedKeys)
	require.False(t, stats.Compressed)
}

func TestDepthLimitOption(t *testing.T) {
	v := value.List(value.List(value.List(value.Int(1))))

	doc, err := bfast.Encode(v)
	require.NoError(t, err)

	_, err = bfast.Decode(doc, bfast.WithMaxDepth(1))
	require.ErrorIs(t, err, errs.ErrDepthExceeded)
}
