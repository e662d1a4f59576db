package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/WuKongIM/zdb/pkg/causality"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigureDefaults(t *testing.T) {
	opts := New()
	require.NoError(t, opts.ConfigureWithViper(viper.New()))
	assert.Equal(t, FormatJSON, opts.Format)
	assert.True(t, opts.Scan.Strict)
	assert.Equal(t, causality.DanglingFail, opts.Log.Dangling)
	assert.Equal(t, zapcore.WarnLevel, opts.Logger.Level)
}

func TestConfigureFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
format: table
strict: false
dangling: warn
schema: /etc/zdb/families.yaml
cache:
  size: 16
logger:
  level: debug
  dir: /tmp/zdb-logs
log:
  strictTail: true
`), 0644))

	vp := viper.New()
	vp.SetConfigFile(path)
	require.NoError(t, vp.ReadInConfig())

	opts := New()
	require.NoError(t, opts.ConfigureWithViper(vp))
	assert.Equal(t, FormatTable, opts.Format)
	assert.False(t, opts.Scan.Strict)
	assert.Equal(t, 16, opts.Scan.CacheSize)
	assert.Equal(t, causality.DanglingWarn, opts.Log.Dangling)
	assert.True(t, opts.Log.StrictTail)
	assert.Equal(t, "/etc/zdb/families.yaml", opts.SchemaFile)
	assert.Equal(t, zapcore.DebugLevel, opts.Logger.Level)
	assert.Equal(t, "/tmp/zdb-logs", opts.LogOptions().LogDir)
	assert.Equal(t, path, opts.ConfigFileUsed())
}

func TestConfigureRejectsUnknownValues(t *testing.T) {
	vp := viper.New()
	vp.Set("dangling", "ignore")
	assert.Error(t, New().ConfigureWithViper(vp))

	vp = viper.New()
	vp.Set("format", "xml")
	assert.Error(t, New().ConfigureWithViper(vp))
}

func TestCacheSizeZeroDisablesCache(t *testing.T) {
	vp := viper.New()
	vp.Set("cache.size", 0)
	opts := New()
	require.NoError(t, opts.ConfigureWithViper(vp))
	assert.Equal(t, 0, opts.Scan.CacheSize)

	opts = New()
	require.NoError(t, opts.ConfigureWithViper(viper.New()))
	assert.Equal(t, 1024, opts.Scan.CacheSize)
}
