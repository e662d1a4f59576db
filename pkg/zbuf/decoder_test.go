package zbuf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		enc := NewEncoder(order)
		enc.WriteUint8(7)
		enc.WriteBool(true)
		enc.WriteInt32(-42)
		enc.WriteUint64(1 << 40)
		enc.WriteInt64(-1)
		enc.WriteString("member-2")
		enc.WriteString("")

		dec := NewDecoder(enc.Bytes(), order)
		u8, err := dec.Uint8()
		require.NoError(t, err)
		assert.Equal(t, uint8(7), u8)

		b, err := dec.Bool()
		require.NoError(t, err)
		assert.True(t, b)

		i32, err := dec.Int32()
		require.NoError(t, err)
		assert.Equal(t, int32(-42), i32)

		u64, err := dec.Uint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(1<<40), u64)

		i64, err := dec.Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(-1), i64)

		s, err := dec.OptionalString()
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "member-2", *s)

		none, err := dec.OptionalString()
		require.NoError(t, err)
		assert.Nil(t, none)
		assert.Equal(t, 0, dec.Len())
	}
}

func TestDecoderUnderflow(t *testing.T) {
	dec := NewDecoder([]byte{1, 2, 3}, binary.LittleEndian)
	_, err := dec.Uint32()
	assert.ErrorIs(t, err, ErrBufferUnderflow)
	// a failed read does not move the cursor
	assert.Equal(t, 0, dec.Offset())

	enc := NewEncoder(binary.LittleEndian)
	enc.WriteUint32(10)
	enc.WriteBytes([]byte("abc"))
	_, err = NewDecoder(enc.Bytes(), binary.LittleEndian).String()
	assert.ErrorIs(t, err, ErrBufferUnderflow)
}

func TestDecoderInvalidValues(t *testing.T) {
	_, err := NewDecoder([]byte{2}, binary.LittleEndian).Bool()
	assert.ErrorIs(t, err, ErrInvalidBool)

	enc := NewEncoder(binary.LittleEndian)
	enc.WriteBinary([]byte{0xff, 0xfe})
	_, err = NewDecoder(enc.Bytes(), binary.LittleEndian).String()
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
