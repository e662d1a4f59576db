package zbutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonArrayPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewJsonArrayPrinter(&buf)
	require.NoError(t, p.Print(map[string]int{"a": 1}))
	require.NoError(t, p.Print("b"))
	require.NoError(t, p.Close())
	assert.Equal(t, "[{\"a\":1},\"b\"]\n", buf.String())
	assert.Equal(t, 2, p.Count())

	buf.Reset()
	require.NoError(t, NewJsonArrayPrinter(&buf).Close())
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	p = NewJsonArrayPrinter(&buf)
	assert.Error(t, p.Print(make(chan int)))
	assert.Error(t, p.Close())
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(dir+"/missing"))
}
