package wiretag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelomarkus/bfast/wiretag"
)

func TestSmallIntRoundTrip(t *testing.T) {
	for n := uint8(0); n <= 15; n++ {
		tag := wiretag.SmallInt(n)
		if n == 8 {
			// 0x30+8 is the Int64 tag, which is never a SmallInt.
			require.False(t, wiretag.IsSmallInt(tag), "n=%d tag=%#x", n, tag)
			continue
		}
		require.True(t, wiretag.IsSmallInt(tag), "n=%d tag=%#x", n, tag)
		require.Equal(t, n, wiretag.SmallIntValue(tag))
	}
}

func TestInt64NotSmallInt(t *testing.T) {
	// Int64 (0x38) overlaps the SmallInt numeric range but must not be
	// classified as SmallInt.
	require.False(t, wiretag.IsSmallInt(wiretag.Int64))
	require.True(t, wiretag.IsKnown(wiretag.Int64))
}

func TestIsKnownCoversCatalogue(t *testing.T) {
	known := []wiretag.Tag{
		wiretag.Null, wiretag.BoolFalse, wiretag.BoolTrue, wiretag.Int64,
		wiretag.Float64, wiretag.String, wiretag.List, wiretag.ObjectOpen,
		wiretag.ByteString, wiretag.FloatArray, wiretag.Timestamp,
		wiretag.Date, wiretag.Time, wiretag.UUID, wiretag.Decimal,
	}
	for _, tag := range known {
		require.True(t, wiretag.IsKnown(tag), "tag %#x should be known", byte(tag))
	}
	for n := uint8(0); n <= 15; n++ {
		require.True(t, wiretag.IsKnown(wiretag.SmallInt(n)))
	}
}

func TestUnknownTagsEverySpareByte(t *testing.T) {
	// Every octet 0x00..0xFF not in the catalogue (and not the ObjectEnd
	// sentinel, which is never a value head) must be reported unknown.
	reserved := map[byte]bool{byte(wiretag.ObjectEnd): true}
	for n := uint8(0); n <= 15; n++ {
		reserved[byte(wiretag.SmallInt(n))] = true
	}
	for _, tag := range []wiretag.Tag{
		wiretag.Null, wiretag.BoolFalse, wiretag.BoolTrue, wiretag.Int64,
		wiretag.Float64, wiretag.String, wiretag.List, wiretag.ObjectOpen,
		wiretag.ByteString, wiretag.FloatArray, wiretag.Timestamp,
		wiretag.Date, wiretag.Time, wiretag.UUID, wiretag.Decimal,
	} {
		reserved[byte(tag)] = true
	}

	for b := 0; b <= 0xFF; b++ {
		tag := wiretag.Tag(b)
		if reserved[byte(b)] {
			continue
		}
		require.False(t, wiretag.IsKnown(tag), "byte %#x should be unknown", b)
	}
}

func TestHasLengthPrefixedPayload(t *testing.T) {
	for _, tag := range []wiretag.Tag{
		wiretag.String, wiretag.ByteString, wiretag.Timestamp,
		wiretag.Date, wiretag.Time, wiretag.UUID, wiretag.Decimal,
	} {
		require.True(t, wiretag.HasLengthPrefixedPayload(tag))
	}
	for _, tag := range []wiretag.Tag{
		wiretag.Null, wiretag.BoolFalse, wiretag.Int64, wiretag.Float64,
		wiretag.List, wiretag.ObjectOpen, wiretag.FloatArray,
	} {
		require.False(t, wiretag.HasLengthPrefixedPayload(tag))
	}
}

func TestTagString(t *testing.T) {
	require.Equal(t, "Null", wiretag.Null.String())
	require.Equal(t, "SmallInt", wiretag.SmallInt(5).String())
	require.Equal(t, "Unknown", wiretag.Tag(0xAA).String())
}
