package journal

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zbuf"
	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// SegmentFile is a segment found on disk.
type SegmentFile struct {
	ID   uint64
	Path string
}

// ListSegments returns the segments <name>-<id>.log in dir ordered by id.
func ListSegments(dir, name string) ([]SegmentFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zberr.StorageUnavailable(dir, errors.WithStack(err))
	}
	prefix := name + "-"
	var segments []SegmentFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fileName := e.Name()
		if !strings.HasPrefix(fileName, prefix) || !strings.HasSuffix(fileName, segmentSuffix) {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimPrefix(fileName, prefix), segmentSuffix), 10, 64)
		if err != nil {
			continue
		}
		segments = append(segments, SegmentFile{ID: id, Path: filepath.Join(dir, fileName)})
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].ID < segments[j].ID
	})
	return segments, nil
}

type descriptor struct {
	version        uint8
	id             uint64
	firstIndex     uint64
	maxSegmentSize uint32
}

// segment is one mapped segment file.
type segment struct {
	path   string
	file   *os.File
	data   mmap.MMap
	desc   descriptor
	offset int
}

var (
	// errTornFrame marks data that ends inside a frame, or a damaged frame with nothing
	// written after it.
	errTornFrame = errors.New("torn frame")
	// errDamagedFrame marks a frame that fails its checksum while written data follows it.
	errDamagedFrame = errors.New("damaged frame followed by written data")
)

func openSegment(path string) (*segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zberr.StorageUnavailable(path, errors.WithStack(err))
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, zberr.StorageUnavailable(path, errors.WithStack(err))
	}
	s := &segment{path: path, file: f}
	// 空文件无法映射
	if info.Size() > 0 {
		s.data, err = mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			_ = f.Close()
			return nil, zberr.StorageUnavailable(path, errors.Wrap(err, "mmap"))
		}
	}
	return s, nil
}

// readDescriptor decodes the segment header. errTornFrame means the file ends inside it.
func (s *segment) readDescriptor() error {
	if len(s.data) < DescriptorSize {
		return errTornFrame
	}
	dec := zbuf.NewDecoder(s.data[:DescriptorSize], Encoding)
	s.desc.version, _ = dec.Uint8()
	s.desc.id, _ = dec.Uint64()
	s.desc.firstIndex, _ = dec.Uint64()
	s.desc.maxSegmentSize, _ = dec.Uint32()
	if s.desc.version != DescriptorVersion {
		return zberr.Corrupt(s.path, nil, "unsupported segment version %d", s.desc.version)
	}
	s.offset = DescriptorSize
	return nil
}

// nextFrame returns the payload and checksum of the next frame. It returns nil at the end of
// the written data, errTornFrame for a partial or damaged last frame and errDamagedFrame for a
// damaged frame in the middle of the data.
func (s *segment) nextFrame() ([]byte, uint64, error) {
	remaining := len(s.data) - s.offset
	if remaining == 0 {
		return nil, 0, nil
	}
	if remaining < 4 {
		return nil, 0, errTornFrame
	}
	length := Encoding.Uint32(s.data[s.offset:])
	if length == 0 {
		return nil, 0, nil
	}
	if remaining < FrameHeaderSize || uint64(remaining-FrameHeaderSize) < uint64(length) {
		return nil, 0, errTornFrame
	}
	checksum := Encoding.Uint64(s.data[s.offset+4:])
	start := s.offset + FrameHeaderSize
	payload := s.data[start : start+int(length)]
	if xxhash.Sum64(payload) != checksum {
		if written(s.data[start+int(length):]) {
			return nil, 0, errDamagedFrame
		}
		return nil, 0, errTornFrame
	}
	s.offset = start + int(length)
	return payload, checksum, nil
}

// written reports whether p holds anything but preallocated zeros.
func written(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return true
		}
	}
	return false
}

func (s *segment) close() error {
	var err error
	if s.data != nil {
		err = s.data.Unmap()
		s.data = nil
	}
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return err
}
