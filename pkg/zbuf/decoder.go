package zbuf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrBufferUnderflow is returned when a read would go past the end of the buffer.
	ErrBufferUnderflow = errors.New("buffer underflow")
	// ErrInvalidUTF8 is returned when a length-prefixed string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8 string")
	// ErrInvalidBool is returned when a boolean byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("invalid boolean byte")
)

// Decoder 解码
// Decoder reads fixed-width values from a byte buffer and advances a cursor.
type Decoder struct {
	p      []byte
	offset int
	order  binary.ByteOrder
}

// NewDecoder NewDecoder
func NewDecoder(p []byte, order binary.ByteOrder) *Decoder {
	return &Decoder{
		p:     p,
		order: order,
	}
}

// Len returns the number of unread bytes.
func (d *Decoder) Len() int {
	return len(d.p) - d.offset
}

// Offset returns the cursor position.
func (d *Decoder) Offset() int {
	return d.offset
}

func (d *Decoder) next(num int) ([]byte, error) {
	if num < 0 || d.offset+num > len(d.p) {
		return nil, fmt.Errorf("%w: need bytes %d of %d at offset %d", ErrBufferUnderflow, num, len(d.p)-d.offset, d.offset)
	}
	b := d.p[d.offset : d.offset+num]
	d.offset += num
	return b, nil
}

// Uint8 Uint8
func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool reads one byte that must be 0 or 1.
func (d *Decoder) Bool() (bool, error) {
	b, err := d.Uint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidBool, b, d.offset-1)
}

// Uint32 Uint32
func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return d.order.Uint32(b), nil
}

// Int32 Int32
func (d *Decoder) Int32() (int32, error) {
	i, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	return int32(i), nil
}

// Uint64 Uint64
func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return d.order.Uint64(b), nil
}

// Int64 Int64
func (d *Decoder) Int64() (int64, error) {
	i, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return int64(i), nil
}

// Bytes returns the next num bytes. The slice aliases the underlying buffer.
func (d *Decoder) Bytes(num int) ([]byte, error) {
	return d.next(num)
}

// Binary reads a u32 length prefix followed by that many bytes.
func (d *Decoder) Binary() ([]byte, error) {
	size, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	if uint64(size) > uint64(d.Len()) {
		return nil, fmt.Errorf("%w: declared length %d exceeds remaining %d", ErrBufferUnderflow, size, d.Len())
	}
	return d.next(int(size))
}

// String reads a u32 length-prefixed UTF-8 string.
func (d *Decoder) String() (string, error) {
	buf, err := d.Binary()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w at offset %d", ErrInvalidUTF8, d.offset-len(buf))
	}
	return string(buf), nil
}

// OptionalString reads a length-prefixed string and maps the empty string to nil.
func (d *Decoder) OptionalString() (*string, error) {
	s, err := d.String()
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// BinaryAll returns every unread byte.
func (d *Decoder) BinaryAll() []byte {
	b := d.p[d.offset:]
	d.offset = len(d.p)
	return b
}
