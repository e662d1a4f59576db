package zbuf

import (
	"bytes"
	"encoding/binary"
)

// Encoder 编码者
// Encoder is the mirror of Decoder. The inspector itself never writes stores; the encoder
// exists for the fixture packages that build test data.
type Encoder struct {
	w     *bytes.Buffer
	order binary.ByteOrder
}

// NewEncoder NewEncoder
func NewEncoder(order binary.ByteOrder) *Encoder {
	return &Encoder{
		w:     bytes.NewBuffer([]byte{}),
		order: order,
	}
}

// Bytes Bytes
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

// Len Len
func (e *Encoder) Len() int {
	return e.w.Len()
}

// WriteUint8 WriteUint8
func (e *Encoder) WriteUint8(i uint8) {
	e.w.WriteByte(i)
}

// WriteBool WriteBool
func (e *Encoder) WriteBool(b bool) {
	if b {
		e.w.WriteByte(1)
		return
	}
	e.w.WriteByte(0)
}

// WriteUint32 WriteUint32
func (e *Encoder) WriteUint32(i uint32) {
	var b [4]byte
	e.order.PutUint32(b[:], i)
	e.w.Write(b[:])
}

// WriteInt32 WriteInt32
func (e *Encoder) WriteInt32(i int32) {
	e.WriteUint32(uint32(i))
}

// WriteUint64 WriteUint64
func (e *Encoder) WriteUint64(i uint64) {
	var b [8]byte
	e.order.PutUint64(b[:], i)
	e.w.Write(b[:])
}

// WriteInt64 WriteInt64
func (e *Encoder) WriteInt64(i int64) {
	e.WriteUint64(uint64(i))
}

// WriteBinary writes a u32 length prefix followed by b.
func (e *Encoder) WriteBinary(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.w.Write(b)
}

// WriteString WriteString
func (e *Encoder) WriteString(str string) {
	e.WriteBinary([]byte(str))
}

// WriteBytes writes b without a length prefix.
func (e *Encoder) WriteBytes(b []byte) {
	e.w.Write(b)
}
