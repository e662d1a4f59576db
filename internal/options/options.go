package options

import (
	"strings"

	"github.com/WuKongIM/zdb/pkg/causality"
	"github.com/WuKongIM/zdb/pkg/zblog"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

type Options struct {
	vp     *viper.Viper // 内部配置对象
	Logger struct {
		Dir     string // 日志存储目录，为空时只输出到stderr
		Level   zapcore.Level
		LineNum bool // 是否显示代码行数
	}
	Format Format // 输出格式 json 或 table
	Scan   struct {
		Strict    bool // 解码失败时中止扫描
		CacheSize int  // 点查原始值缓存条数
	}
	Log struct {
		Dangling   causality.DanglingPolicy // 悬空的来源位置
		StrictTail bool                     // 最后一个段的残缺帧也视为损坏
	}
	SchemaFile string // 列族表yaml文件
}

func New() *Options {
	opts := &Options{
		Format: FormatJSON,
	}
	opts.Logger.Level = zapcore.WarnLevel
	opts.Scan.Strict = true
	opts.Scan.CacheSize = 1024
	opts.Log.Dangling = causality.DanglingFail
	return opts
}

func (o *Options) ConfigureWithViper(vp *viper.Viper) error {
	o.vp = vp

	o.configureLog()

	format := Format(strings.ToLower(o.getString("format", string(o.Format))))
	switch format {
	case FormatJSON, FormatTable:
		o.Format = format
	default:
		return errors.Errorf("unknown format %q", format)
	}

	o.Scan.Strict = o.getBool("strict", o.Scan.Strict)
	o.Scan.CacheSize = o.getInt("cache.size", o.Scan.CacheSize)

	dangling := strings.ToLower(o.getString("dangling", o.Log.Dangling.String()))
	switch dangling {
	case "fail":
		o.Log.Dangling = causality.DanglingFail
	case "warn":
		o.Log.Dangling = causality.DanglingWarn
	default:
		return errors.Errorf("unknown dangling policy %q", dangling)
	}
	o.Log.StrictTail = o.getBool("log.strictTail", o.Log.StrictTail)

	o.SchemaFile = o.getString("schema", o.SchemaFile)
	return nil
}

func (o *Options) configureLog() {
	level := o.getString("logger.level", "")
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			o.Logger.Level = lvl
		} else {
			o.Logger.Level = zapcore.Level(cast.ToInt8(level))
		}
	}
	o.Logger.Dir = o.getString("logger.dir", o.Logger.Dir)
	o.Logger.LineNum = o.getBool("logger.lineNum", o.Logger.LineNum)
}

// LogOptions returns the zblog configuration.
func (o *Options) LogOptions() *zblog.Options {
	logOpts := zblog.NewOptions()
	logOpts.Level = o.Logger.Level
	logOpts.LogDir = o.Logger.Dir
	logOpts.LineNum = o.Logger.LineNum
	return logOpts
}

func (o *Options) ConfigFileUsed() string {
	if o.vp == nil {
		return ""
	}
	return o.vp.ConfigFileUsed()
}

func (o *Options) getString(key string, defaultValue string) string {
	v := o.vp.GetString(key)
	if v == "" {
		return defaultValue
	}
	return v
}

func (o *Options) getInt(key string, defaultValue int) int {
	if !o.vp.IsSet(key) {
		return defaultValue
	}
	return o.vp.GetInt(key)
}

func (o *Options) getBool(key string, defaultValue bool) bool {
	objV := o.vp.Get(key)
	if objV == nil {
		return defaultValue
	}
	return cast.ToBool(objV)
}
