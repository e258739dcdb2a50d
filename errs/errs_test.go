package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcelomarkus/bfast/errs"
)

func TestAtOffset(t *testing.T) {
	err := errs.AtOffset(42, errs.ErrUnknownTag)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUnknownTag)
	require.Contains(t, err.Error(), "42")

	require.Nil(t, errs.AtOffset(42, nil))
}

func TestAtPath(t *testing.T) {
	err := errs.AtPath("$.users[0].name", errs.ErrUnsupportedType)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
	require.Contains(t, err.Error(), "$.users[0].name")

	require.Nil(t, errs.AtPath("$", nil))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		errs.ErrTruncated, errs.ErrBadFraming, errs.ErrBadVersion,
		errs.ErrInvalidUTF8, errs.ErrUnknownTag, errs.ErrBadInternID,
		errs.ErrUnterminatedObject, errs.ErrDepthExceeded, errs.ErrResourceLimit,
		errs.ErrTrailingGarbage, errs.ErrBadUUIDLength, errs.ErrBadDecimal,
		errs.ErrBadTemporal, errs.ErrInternOverflow, errs.ErrKeyTooLong,
		errs.ErrUnsupportedType,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "expected %v and %v to be distinct", a, b)
		}
	}
}
