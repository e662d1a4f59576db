package key

import (
	"encoding/binary"
	"fmt"
)

// 键结构
// ---------------------
// | familyTag | payload                          |
// | 8 byte    | family specific, big-endian ints |
// ---------------------

// FamilyTagSize is the width of the column family tag at the start of every key.
const FamilyTagSize = 8

// Encoding is the byte order of the family tag and of every integer inside a key.
var Encoding = binary.BigEndian

// FamilyPrefix returns the prefix shared by every key of the family tag.
func FamilyPrefix(tag uint64) []byte {
	prefix := make([]byte, FamilyTagSize)
	Encoding.PutUint64(prefix, tag)
	return prefix
}

// New builds a composite key: family tag followed by the payload parts.
func New(tag uint64, parts ...[]byte) []byte {
	size := FamilyTagSize
	for _, p := range parts {
		size += len(p)
	}
	k := make([]byte, FamilyTagSize, size)
	Encoding.PutUint64(k, tag)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

// Int64 encodes v as an 8 byte big-endian key part.
func Int64(v int64) []byte {
	b := make([]byte, 8)
	Encoding.PutUint64(b, uint64(v))
	return b
}

// Family returns the family tag of key.
func Family(key []byte) (uint64, error) {
	if len(key) < FamilyTagSize {
		return 0, fmt.Errorf("key: invalid key length, keyLen: %d", len(key))
	}
	return Encoding.Uint64(key), nil
}

// Payload returns the part of key after the family tag.
func Payload(key []byte) []byte {
	if len(key) < FamilyTagSize {
		return nil
	}
	return key[FamilyTagSize:]
}

// TrailingUint64 extracts the big-endian integer in the last 8 bytes of key. This recovers a
// record's own key from composite keys that also embed the family tag and sub-key fields.
func TrailingUint64(key []byte) (uint64, error) {
	if len(key) < FamilyTagSize+8 {
		return 0, fmt.Errorf("key: no trailing integer, keyLen: %d", len(key))
	}
	return Encoding.Uint64(key[len(key)-8:]), nil
}

// TrailingInt64 TrailingInt64
func TrailingInt64(key []byte) (int64, error) {
	v, err := TrailingUint64(key)
	return int64(v), err
}

// UpperBound returns the smallest key greater than every key with the given prefix, or nil
// when no such key exists.
func UpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
