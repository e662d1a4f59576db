package journal

import (
	"io"

	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zblog"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Options struct {
	// StrictTail treats a torn frame in the last segment as corruption instead of the end
	// of the log.
	StrictTail bool
}

func NewOptions(opt ...Option) *Options {
	o := &Options{}
	for _, f := range opt {
		f(o)
	}
	return o
}

type Option func(*Options)

func WithStrictTail(strict bool) Option {
	return func(o *Options) {
		o.StrictTail = strict
	}
}

// Reader streams the records of a journal in log order. It maps one segment at a time and is
// not restartable.
type Reader struct {
	paths []string
	opts  *Options

	seg    *segment
	segIdx int

	nextIndex    uint64
	hasIndex     bool
	lastPosition int64
	hasPosition  bool

	err error // 终止状态，io.EOF 或读取错误
	zblog.Log
}

// NewReader reads the segments at paths, in the given order.
func NewReader(paths []string, opt ...Option) *Reader {
	return &Reader{
		paths:  paths,
		opts:   NewOptions(opt...),
		segIdx: -1,
		Log:    zblog.NewZBLog("journal"),
	}
}

// Open reads the journal <name>-<id>.log in dir.
func Open(dir, name string, opt ...Option) (*Reader, error) {
	segments, err := ListSegments(dir, name)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, zberr.StorageUnavailable(dir, errors.Errorf("no segments of %s", name))
	}
	paths := make([]string, 0, len(segments))
	for _, s := range segments {
		paths = append(paths, s.Path)
	}
	return NewReader(paths, opt...), nil
}

// Next returns the next record, io.EOF once the log is exhausted. After an error every call
// returns the same error.
func (r *Reader) Next() (*PersistedRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	record, err := r.next()
	if err != nil {
		r.err = err
		if cerr := r.closeSegment(); cerr != nil && err == io.EOF {
			r.err = zberr.StorageUnavailable(r.paths[len(r.paths)-1], cerr)
		}
		return nil, r.err
	}
	return record, nil
}

func (r *Reader) next() (*PersistedRecord, error) {
	for {
		if r.seg == nil {
			if r.segIdx+1 >= len(r.paths) {
				return nil, io.EOF
			}
			r.segIdx++
			done, err := r.openSegment(r.paths[r.segIdx])
			if err != nil {
				return nil, err
			}
			if done {
				return nil, io.EOF
			}
			continue
		}
		payload, checksum, err := r.seg.nextFrame()
		if err == errDamagedFrame {
			return nil, zberr.Corrupt(r.seg.path, err, "frame at offset %d", r.seg.offset)
		}
		if err != nil {
			if err := r.torn(err, "frame at offset %d", r.seg.offset); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		if payload == nil {
			if err := r.closeSegment(); err != nil {
				return nil, zberr.StorageUnavailable(r.paths[r.segIdx], err)
			}
			continue
		}
		record, err := decodePayload(payload, checksum)
		if err != nil {
			return nil, zberr.Corrupt(r.seg.path, err, "record at offset %d", r.seg.offset-len(payload)-FrameHeaderSize)
		}
		if err := r.check(record); err != nil {
			return nil, err
		}
		return record, nil
	}
}

// openSegment maps the segment and validates its descriptor. done reports a torn descriptor
// in the last segment, which ends the log.
func (r *Reader) openSegment(path string) (done bool, err error) {
	seg, err := openSegment(path)
	if err != nil {
		return false, err
	}
	r.seg = seg
	if err := seg.readDescriptor(); err != nil {
		if err != errTornFrame {
			return false, err
		}
		if err := r.torn(err, "descriptor"); err != nil {
			return false, err
		}
		return true, nil
	}
	if r.hasIndex && seg.desc.firstIndex != r.nextIndex {
		return false, zberr.Corrupt(path, nil, "segment %d starts at index %d, expected %d", seg.desc.id, seg.desc.firstIndex, r.nextIndex)
	}
	if !r.hasIndex {
		r.nextIndex = seg.desc.firstIndex
		r.hasIndex = true
	}
	r.Debug("open segment", zap.String("path", path), zap.Uint64("id", seg.desc.id), zap.Uint64("firstIndex", seg.desc.firstIndex))
	return false, nil
}

// torn decides whether damaged data ends the log (nil) or is corruption.
func (r *Reader) torn(cause error, format string, args ...any) error {
	last := r.segIdx == len(r.paths)-1
	if !last || r.opts.StrictTail {
		return zberr.Corrupt(r.seg.path, cause, format, args...)
	}
	r.Warn("journal ends in a torn frame", zap.String("path", r.seg.path), zap.Int("offset", r.seg.offset))
	return nil
}

// check enforces contiguous indexes and strictly increasing positions.
func (r *Reader) check(record *PersistedRecord) error {
	if record.Index != r.nextIndex {
		return zberr.Corrupt(r.seg.path, nil, "record index %d, expected %d", record.Index, r.nextIndex)
	}
	r.nextIndex++
	if record.Kind != KindApplication {
		return nil
	}
	app := record.Application
	for _, e := range app.Entries {
		if e.Position < app.LowestPosition || e.Position > app.HighestPosition {
			return zberr.CorruptAt(r.seg.path, e.Position, "position outside [%d, %d] of index %d", app.LowestPosition, app.HighestPosition, record.Index)
		}
		if r.hasPosition && e.Position <= r.lastPosition {
			return zberr.CorruptAt(r.seg.path, e.Position, "position not above previous %d", r.lastPosition)
		}
		r.lastPosition = e.Position
		r.hasPosition = true
	}
	return nil
}

func (r *Reader) closeSegment() error {
	if r.seg == nil {
		return nil
	}
	err := r.seg.close()
	r.seg = nil
	return err
}

// Close releases the mapped segment. Subsequent calls to Next return io.EOF.
func (r *Reader) Close() error {
	if r.err == nil {
		r.err = io.EOF
	}
	return r.closeSegment()
}

// ReadAll drains r into a LogContent.
func ReadAll(r *Reader) (*LogContent, error) {
	content := &LogContent{}
	for {
		record, err := r.Next()
		if err == io.EOF {
			return content, nil
		}
		if err != nil {
			return nil, err
		}
		content.Records = append(content.Records, record)
	}
}
