package zdb

type Options struct {
	Strict    bool // 解码失败时中止扫描
	CacheSize int  // 原始值LRU缓存条数，0为关闭
}

func NewOptions(opt ...Option) *Options {
	o := &Options{
		Strict:    true,
		CacheSize: 1024,
	}
	for _, f := range opt {
		f(o)
	}
	return o
}

type Option func(*Options)

// WithStrict sets whether a record that fails to decode aborts a scan. Lenient scans skip
// it and count it in ScanResult.Skipped.
func WithStrict(strict bool) Option {
	return func(o *Options) {
		o.Strict = strict
	}
}

func WithCacheSize(size int) Option {
	return func(o *Options) {
		o.CacheSize = size
	}
}
