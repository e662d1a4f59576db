package key

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndTrailing(t *testing.T) {
	k := New(16, Int64(2251799813685249))
	assert.Len(t, k, 16)
	assert.True(t, bytes.HasPrefix(k, FamilyPrefix(16)))

	tag, err := Family(k)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), tag)

	v, err := TrailingInt64(k)
	require.NoError(t, err)
	assert.Equal(t, int64(2251799813685249), v)

	// sub-key fields before the record key
	k = New(7, []byte("order-process"), Int64(3), Int64(-5))
	v, err = TrailingInt64(k)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), v)
	assert.Equal(t, k[FamilyTagSize:], Payload(k))
}

func TestTrailingShortKey(t *testing.T) {
	_, err := TrailingUint64(FamilyPrefix(3))
	assert.Error(t, err)
	_, err = Family([]byte{1, 2})
	assert.Error(t, err)
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 17}, UpperBound(FamilyPrefix(16)))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1}, UpperBound(FamilyPrefix(255)))
	assert.Nil(t, UpperBound([]byte{0xff, 0xff}))

	// every key of family 16 sorts below the bound, family 17 does not
	bound := UpperBound(FamilyPrefix(16))
	assert.Equal(t, -1, bytes.Compare(New(16, Int64(-1)), bound))
	assert.Equal(t, 0, bytes.Compare(FamilyPrefix(17), bound))
}
