package journal

import (
	"encoding/binary"
)

// 段文件结构
// ---------------------------------------------------------------
// | descriptor                                                  |
// | version(1) | id(8) | firstIndex(8) | maxSegmentSize(4)      |
// ---------------------------------------------------------------
// | frame | frame | ... | length=0 or end of file               |
// ---------------------------------------------------------------
//
// frame   = length(4) | checksum(8, xxhash64 of payload) | payload
// payload = index(8) | asqn(8) | term(8) | type(1) | body

const (
	DescriptorVersion uint8 = 2
	// DescriptorSize version + id + firstIndex + maxSegmentSize
	DescriptorSize = 1 + 8 + 8 + 4
	// FrameHeaderSize length + checksum
	FrameHeaderSize = 4 + 8
	// PayloadHeaderSize index + asqn + term + type
	PayloadHeaderSize = 8 + 8 + 8 + 1

	segmentSuffix = ".log"
)

// Encoding is the byte order of every integer in a segment.
var Encoding = binary.LittleEndian

// frame types
const (
	frameApplication   uint8 = 1
	frameInitial       uint8 = 2
	frameConfiguration uint8 = 3
)
