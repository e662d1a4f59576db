package zblog

import (
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger      // info日志
var errorLogger *zap.Logger // 错误日志
var warnLogger *zap.Logger  // 警告日志
var atom = zap.NewAtomicLevel()

var opts *Options
var mu sync.Mutex

// Configure builds the package loggers. Console output goes to stderr because stdout
// carries the inspection result.
func Configure(op *Options) {
	mu.Lock()
	defer mu.Unlock()
	atom.SetLevel(op.Level)
	opts = op

	loggerOpts := make([]zap.Option, 0)
	if opts.LineNum {
		loggerOpts = append(loggerOpts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	logger = zap.New(newCore("info.log", atom), loggerOpts...)
	errorLogger = zap.New(newCore("error.log", atLeast(zap.ErrorLevel)), loggerOpts...)
	warnLogger = zap.New(newCore("warn.log", atLeast(zap.WarnLevel)), loggerOpts...)
}

// atLeast enables min and above, still honoring the configured level.
func atLeast(min zapcore.Level) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= min && atom.Enabled(l)
	})
}

func newCore(fileName string, level zapcore.LevelEnabler) zapcore.Core {
	writers := make([]zapcore.WriteSyncer, 0, 2)
	if !opts.NoStderr {
		writers = append(writers, zapcore.AddSync(os.Stderr))
	}
	if opts.LogDir != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   path.Join(opts.LogDir, fileName),
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}))
	}
	var encoder zapcore.Encoder
	if opts.LogDir != "" {
		encoder = zapcore.NewJSONEncoder(newEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(newEncoderConfig())
	}
	// 至少保证一个输出
	if len(writers) == 0 {
		return zapcore.NewNopCore()
	}
	return zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
}

func Level() zapcore.Level {
	ensure()
	return opts.Level
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "time",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "linenum",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.LowercaseLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		EncodeName:    zapcore.FullNameEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02T15:04:05.999-07:00"))
		},
		EncodeDuration: func(d time.Duration, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendInt64(int64(d) / 1000000)
		},
	}
}

func ensure() {
	mu.Lock()
	configured := logger != nil
	mu.Unlock()
	if !configured {
		Configure(NewOptions())
	}
}

// Info Info
func Info(msg string, fields ...zap.Field) {
	ensure()
	logger.Info(msg, fields...)
}

// Debug Debug
func Debug(msg string, fields ...zap.Field) {
	ensure()
	logger.Debug(msg, fields...)
}

// Error Error
func Error(msg string, fields ...zap.Field) {
	ensure()
	errorLogger.Error(msg, fields...)
}

// Warn Warn
func Warn(msg string, fields ...zap.Field) {
	ensure()
	warnLogger.Warn(msg, fields...)
}

func Sync() error {
	if logger == nil {
		return nil
	}
	_ = warnLogger.Sync()
	_ = errorLogger.Sync()
	return logger.Sync()
}

type Log interface {
	Info(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// ZBLog prefixes every message with the owning component.
type ZBLog struct {
	prefix string // 日志前缀
}

// NewZBLog NewZBLog
func NewZBLog(prefix string) *ZBLog {

	return &ZBLog{prefix: prefix}
}

func (t *ZBLog) format(msg string) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(t.prefix)
	b.WriteString("] ")
	b.WriteString(msg)
	return b.String()
}

// Info Info
func (t *ZBLog) Info(msg string, fields ...zap.Field) {
	Info(t.format(msg), fields...)
}

// Debug Debug
func (t *ZBLog) Debug(msg string, fields ...zap.Field) {
	Debug(t.format(msg), fields...)
}

// Error Error
func (t *ZBLog) Error(msg string, fields ...zap.Field) {
	Error(t.format(msg), fields...)
}

// Warn Warn
func (t *ZBLog) Warn(msg string, fields ...zap.Field) {
	Warn(t.format(msg), fields...)
}
