package schema

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Decoder kinds accepted in schema files.
const (
	KindMsgpack  = "msgpack"
	KindJSON     = "json"
	KindInt64    = "int64"
	KindString   = "string"
	KindDbString = "dbstring"
	KindRaw      = "raw"
	KindNil      = "nil"
)

// DecoderForKind returns the built-in decoder of kind.
func DecoderForKind(kind string) (Decoder, error) {
	switch kind {
	case KindMsgpack:
		return DecoderFunc(DecodeMsgpack), nil
	case KindJSON:
		return DecoderFunc(decodeJSON), nil
	case KindInt64:
		return DecoderFunc(decodeInt64), nil
	case KindString:
		return DecoderFunc(decodeString), nil
	case KindDbString:
		return DecoderFunc(decodeDbString), nil
	case KindRaw:
		return DecoderFunc(decodeRaw), nil
	case KindNil:
		return DecoderFunc(decodeNil), nil
	}
	return nil, errors.Wrapf(ErrUnknownDecoder, "%q", kind)
}

// DecodeMsgpack decodes a msgpack document into a map. Integers decode as int64 or uint64
// and floats as float64.
func DecodeMsgpack(value []byte) (any, error) {
	r := bytes.NewReader(value)
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, errors.Wrap(err, "msgpack")
	}
	if r.Len() > 0 {
		return nil, errors.Errorf("msgpack: %d trailing bytes after document", r.Len())
	}
	return normalizeMsgpack(v), nil
}

// normalizeMsgpack turns map[interface{}]interface{} produced for non-string keys into
// string keyed maps so the result renders as JSON.
func normalizeMsgpack(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeMsgpack(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalizeMsgpack(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalizeMsgpack(e)
		}
		return t
	}
	return v
}

// Msgpack returns a decoder that unmarshals into a fresh T.
func Msgpack[T any]() Decoder {
	return DecoderFunc(func(value []byte) (any, error) {
		var v T
		if err := msgpack.Unmarshal(value, &v); err != nil {
			return nil, errors.Wrapf(err, "msgpack %T", v)
		}
		return v, nil
	})
}

func decodeJSON(value []byte) (any, error) {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return nil, errors.Wrap(err, "json")
	}
	return v, nil
}

func decodeInt64(value []byte) (any, error) {
	if len(value) != 8 {
		return nil, errors.Errorf("int64: expected 8 bytes, got %d", len(value))
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}

func decodeString(value []byte) (any, error) {
	if !utf8.Valid(value) {
		return nil, errors.New("string: invalid utf-8")
	}
	return string(value), nil
}

func decodeDbString(value []byte) (any, error) {
	if len(value) < 4 {
		return nil, errors.Errorf("dbstring: expected length prefix, got %d bytes", len(value))
	}
	size := binary.BigEndian.Uint32(value)
	if uint64(size) != uint64(len(value)-4) {
		return nil, errors.Errorf("dbstring: declared %d bytes, got %d", size, len(value)-4)
	}
	return decodeString(value[4:])
}

func decodeRaw(value []byte) (any, error) {
	return hex.EncodeToString(value), nil
}

func decodeNil(value []byte) (any, error) {
	if len(value) > 1 || (len(value) == 1 && value[0] != 0 && value[0] != 0xc0) {
		return nil, errors.Errorf("nil: expected empty value, got %d bytes", len(value))
	}
	return nil, nil
}
