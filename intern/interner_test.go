package intern_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelomarkus/bfast/cursor"
	"github.com/marcelomarkus/bfast/endian"
	"github.com/marcelomarkus/bfast/errs"
	"github.com/marcelomarkus/bfast/intern"
)

func TestInternAssignsFirstSeenOrder(t *testing.T) {
	tbl := intern.New()

	id0, err := tbl.Intern("id")
	require.NoError(t, err)
	require.Equal(t, uint32(0), id0)

	id1, err := tbl.Intern("name")
	require.NoError(t, err)
	require.Equal(t, uint32(1), id1)

	// Re-interning a key already seen returns the same id, no new entry.
	again, err := tbl.Intern("id")
	require.NoError(t, err)
	require.Equal(t, id0, again)
	require.Equal(t, 2, tbl.Len())
}

func TestInternKeyTooLong(t *testing.T) {
	tbl := intern.New()
	_, err := tbl.Intern(strings.Repeat("a", 256))
	require.ErrorIs(t, err, errs.ErrKeyTooLong)
}

func TestInternOverflow(t *testing.T) {
	tbl := intern.New()
	for i := 0; i < intern.MaxEntries; i++ {
		_, err := tbl.Intern(fmt.Sprintf("k%d", i))
		require.NoError(t, err)
	}

	_, err := tbl.Intern("one-too-many")
	require.ErrorIs(t, err, errs.ErrInternOverflow)
}

func TestWriteReadTableRoundTrip(t *testing.T) {
	tbl := intern.New()
	_, _ = tbl.Intern("id")
	_, _ = tbl.Intern("name")

	w := cursor.NewWriter(endian.GetLittleEndianEngine())
	require.NoError(t, tbl.WriteTable(w))

	r := cursor.NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	got, err := intern.ReadTable(r)
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())

	s0, err := got.Lookup(0)
	require.NoError(t, err)
	require.Equal(t, "id", s0)

	s1, err := got.Lookup(1)
	require.NoError(t, err)
	require.Equal(t, "name", s1)
}

func TestLookupOutOfRange(t *testing.T) {
	tbl := intern.New()
	_, _ = tbl.Intern("only")

	w := cursor.NewWriter(endian.GetLittleEndianEngine())
	require.NoError(t, tbl.WriteTable(w))

	r := cursor.NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	got, err := intern.ReadTable(r)
	require.NoError(t, err)

	_, err = got.Lookup(1)
	require.ErrorIs(t, err, errs.ErrBadInternID)
}

func TestReadTableTruncated(t *testing.T) {
	// Count says 1 entry but no bytes follow.
	r := cursor.NewReader([]byte{0x01, 0x00}, endian.GetLittleEndianEngine())
	_, err := intern.ReadTable(r)
	require.ErrorIs(t, err, errs.ErrTruncated)
}
