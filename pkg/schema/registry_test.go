package schema

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("jobs", 16, DecoderFunc(DecodeMsgpack)))
	require.NoError(t, r.Register("KEY", 1, DecoderFunc(decodeInt64)))

	f, d, err := r.Lookup("Jobs")
	require.NoError(t, err)
	assert.Equal(t, Family{Name: "JOBS", Tag: 16}, f)
	assert.NotNil(t, d)

	f, _, ok := r.ByTag(1)
	assert.True(t, ok)
	assert.Equal(t, "KEY", f.Name)

	_, _, err = r.Lookup("VARIABLES")
	assert.True(t, errors.Is(err, ErrUnknownFamily))

	assert.Equal(t, []Family{{"KEY", 1}, {"JOBS", 16}}, r.Families())
	assert.Equal(t, "custom", r.Kind("jobs"))
}

func TestRegistryConflicts(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("JOBS", 16, DecoderFunc(DecodeMsgpack)))

	err := r.Register("JOBS", 17, DecoderFunc(DecodeMsgpack))
	assert.True(t, errors.Is(err, ErrFamilyConflict))

	err = r.Register("OTHER", 16, DecoderFunc(DecodeMsgpack))
	assert.True(t, errors.Is(err, ErrFamilyConflict))

	err = r.Register("NODEC", 20, nil)
	assert.True(t, errors.Is(err, ErrUnknownDecoder))

	// 覆盖后旧的tag释放
	require.NoError(t, r.Override("JOBS", 30, DecoderFunc(decodeRaw)))
	_, _, ok := r.ByTag(16)
	assert.False(t, ok)
	require.NoError(t, r.Register("OTHER", 16, DecoderFunc(DecodeMsgpack)))
	assert.Equal(t, 2, r.Len())
}

func TestLoad(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("JOBS", 16, DecoderFunc(DecodeMsgpack)))

	err := r.Load(strings.NewReader(`
families:
  - name: jobs
    tag: 40
    decoder: raw
  - name: counters
    tag: 41
    decoder: int64
  - name: zero
    tag: 0
`))
	require.NoError(t, err)

	f, d, err := r.Lookup("JOBS")
	require.NoError(t, err)
	assert.Equal(t, uint64(40), f.Tag)
	v, err := d.Decode([]byte{0xab})
	require.NoError(t, err)
	assert.Equal(t, "ab", v)

	assert.Equal(t, KindInt64, r.Kind("COUNTERS"))
	assert.Equal(t, KindMsgpack, r.Kind("ZERO"))
	f, _, err = r.Lookup("zero")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), f.Tag)
}

func TestLoadErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Load(strings.NewReader("families:\n  - name: a\n")))
	assert.True(t, errors.Is(r.Load(strings.NewReader("families:\n  - name: a\n    tag: 1\n    decoder: protobuf\n")), ErrUnknownDecoder))
	assert.Error(t, r.Load(strings.NewReader("families:\n  - name: a\n    tag: 1\n    color: red\n")))
	assert.NoError(t, r.Load(strings.NewReader("")))
	assert.Error(t, r.LoadFile(t.TempDir()+"/missing.yaml"))
}

func TestDecoders(t *testing.T) {
	doc, err := msgpack.Marshal(map[string]any{
		"type":    "payment",
		"retries": 3,
		"headers": map[string]any{"a": "b"},
		"keys":    []any{int64(1), int64(2)},
	})
	require.NoError(t, err)
	v, err := DecodeMsgpack(doc)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "payment", m["type"])
	assert.EqualValues(t, 3, m["retries"])
	assert.Equal(t, map[string]any{"a": "b"}, m["headers"])

	_, err = DecodeMsgpack(append(doc, 0x01))
	assert.Error(t, err)
	_, err = DecodeMsgpack([]byte{0xc1})
	assert.Error(t, err)

	v, err = decodeInt64([]byte{0, 0, 0, 0, 0, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, int64(256), v)
	_, err = decodeInt64([]byte{1})
	assert.Error(t, err)

	v, err = decodeDbString([]byte{0, 0, 0, 2, 'o', 'k'})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	_, err = decodeDbString([]byte{0, 0, 0, 3, 'o', 'k'})
	assert.Error(t, err)
	_, err = decodeString([]byte{0xff})
	assert.Error(t, err)

	v, err = decodeNil(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)
	_, err = decodeNil([]byte{0xc0})
	assert.NoError(t, err)
	_, err = decodeNil([]byte{1, 2})
	assert.Error(t, err)

	v, err = decodeJSON([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestMsgpackTyped(t *testing.T) {
	type job struct {
		Type    string `msgpack:"type"`
		Retries int    `msgpack:"retries"`
	}
	doc, err := msgpack.Marshal(map[string]any{"type": "mail", "retries": 2})
	require.NoError(t, err)

	v, err := Msgpack[job]().Decode(doc)
	require.NoError(t, err)
	assert.Equal(t, job{Type: "mail", Retries: 2}, v)

	_, err = Msgpack[job]().Decode([]byte{0xa1})
	assert.Error(t, err)
}
