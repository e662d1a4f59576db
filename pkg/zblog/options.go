package zblog

import "go.uber.org/zap/zapcore"

type Options struct {
	Level   zapcore.Level
	LogDir  string // 为空时不写日志文件
	LineNum bool
	// NoStderr disables the console writer; used by tests that only want files.
	NoStderr bool
}

func NewOptions() *Options {

	return &Options{
		Level: zapcore.WarnLevel,
	}
}
