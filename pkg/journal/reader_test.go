package journal_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/WuKongIM/zdb/pkg/journal"
	"github.com/WuKongIM/zdb/pkg/journal/journaltest"
	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zbuf"
	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const name = "raft-partition-partition-1"

func entry(position, source int64, valueType journal.ValueType, intent uint8) journaltest.Entry {
	return journaltest.Entry{
		Position:   position,
		Source:     source,
		Key:        position * 10,
		Timestamp:  1700000000000 + position,
		RecordType: journal.RecordTypeEvent,
		ValueType:  valueType,
		Intent:     intent,
		Value:      map[string]any{"processInstanceKey": position * 10},
	}
}

func configuration() raftmeta.Configuration {
	return raftmeta.Configuration{
		Index: 1,
		Term:  1,
		Time:  1700000000000,
		NewMembers: []raftmeta.Member{
			{ID: "0", Hash: 1, Type: raftmeta.MemberTypeActive, LastUpdated: time.UnixMilli(1700000000000).UTC()},
		},
	}
}

func twoSegments() []journaltest.Segment {
	return []journaltest.Segment{
		{
			ID:         1,
			FirstIndex: 1,
			Records: []journaltest.Record{
				journaltest.Initial(1, 1),
				journaltest.Configuration(2, 1, configuration()),
				journaltest.Application(3, 1, entry(1, -1, journal.ValueTypeJob, 0), entry(2, 1, journal.ValueTypeJob, 2)),
			},
			Preallocated: 64,
		},
		{
			ID:         2,
			FirstIndex: 4,
			Records: []journaltest.Record{
				journaltest.Application(4, 2, entry(3, 2, journal.ValueTypeProcessInstance, 3)),
				journaltest.Application(5, 2, entry(4, -1, journal.ValueTypeMessage, 0), entry(6, 4, journal.ValueTypeMessage, 1)),
			},
		},
	}
}

func readAll(t *testing.T, paths []string, opt ...journal.Option) (*journal.LogContent, error) {
	r := journal.NewReader(paths, opt...)
	defer r.Close()
	return journal.ReadAll(r)
}

func TestReadAll(t *testing.T) {
	dir := t.TempDir()
	_, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)

	r, err := journal.Open(dir, name)
	require.NoError(t, err)
	content, err := journal.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	require.Len(t, content.Records, 5)
	assert.Equal(t, journal.KindInitial, content.Records[0].Kind)
	assert.Equal(t, journal.KindConfiguration, content.Records[1].Kind)
	assert.Equal(t, "0", content.Records[1].Configuration.NewMembers[0].ID)

	entries := content.Entries()
	require.Len(t, entries, 5)
	positions := make([]int64, 0, len(entries))
	for _, e := range entries {
		positions = append(positions, e.Position)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 6}, positions)

	e := entries[1]
	assert.Equal(t, uint64(3), e.Index)
	assert.Equal(t, int64(1), e.SourceRecordPosition)
	assert.Equal(t, "COMPLETED", e.Intent)
	assert.Equal(t, journal.ValueTypeJob, e.ValueType)
	assert.Equal(t, time.UnixMilli(1700000000002).UTC(), e.Timestamp)
	assert.EqualValues(t, 20, e.Value["processInstanceKey"])

	assert.Equal(t, "ELEMENT_ACTIVATED", entries[2].Intent)
}

func TestNextAfterEndKeepsReturningEOF(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, journaltest.Segment{ID: 1, FirstIndex: 1, Records: []journaltest.Record{journaltest.Initial(1, 1)}})
	require.NoError(t, err)

	r := journal.NewReader(paths)
	defer r.Close()
	_, err = r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSearch(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)
	content, err := readAll(t, paths)
	require.NoError(t, err)

	e, record, ok := content.FindPosition(3)
	require.True(t, ok)
	assert.Equal(t, uint64(4), record.Index)
	assert.Equal(t, int64(30), e.Key)

	_, _, ok = content.FindPosition(5)
	assert.False(t, ok)

	record, ok = content.FindIndex(2)
	require.True(t, ok)
	assert.Equal(t, journal.KindConfiguration, record.Kind)
	_, ok = content.FindIndex(9)
	assert.False(t, ok)
}

func TestTruncatedTailInLastSegment(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)
	last := paths[1]
	info, err := os.Stat(last)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(last, info.Size()-3))

	content, err := readAll(t, paths)
	require.NoError(t, err)
	assert.Len(t, content.Records, 4)
	assert.Len(t, content.Entries(), 3)

	_, err = readAll(t, paths, journal.WithStrictTail(true))
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
}

func TestChecksumMismatchInLastSegment(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(paths[1], data, 0644))

	content, err := readAll(t, paths)
	require.NoError(t, err)
	assert.Len(t, content.Records, 4)

	// 预分配的零字节不算写入的数据
	segments := twoSegments()
	segments[1].Preallocated = 32
	dir = t.TempDir()
	paths, err = journaltest.WriteSegments(dir, name, segments...)
	require.NoError(t, err)
	data, err = os.ReadFile(paths[1])
	require.NoError(t, err)
	data[len(data)-32-1] ^= 0xff
	require.NoError(t, os.WriteFile(paths[1], data, 0644))

	content, err = readAll(t, paths)
	require.NoError(t, err)
	assert.Len(t, content.Records, 4)
}

func TestChecksumMismatchBeforeWrittenDataIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	// 第一帧的payload，后面还有完整的第二帧
	data[journal.DescriptorSize+journal.FrameHeaderSize] ^= 0xff
	require.NoError(t, os.WriteFile(paths[1], data, 0644))

	_, err = readAll(t, paths)
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
	var zerr *zberr.Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, paths[1], zerr.Path)
}

func TestTruncatedEarlierSegmentIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	segments := twoSegments()
	segments[0].Preallocated = 0
	paths, err := journaltest.WriteSegments(dir, name, segments...)
	require.NoError(t, err)
	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	require.NoError(t, os.Truncate(paths[0], info.Size()-3))

	_, err = readAll(t, paths)
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
	var zerr *zberr.Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, paths[0], zerr.Path)
}

func TestIndexGapIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	segments := twoSegments()
	segments[1].FirstIndex = 5
	paths, err := journaltest.WriteSegments(dir, name, segments...)
	require.NoError(t, err)
	_, err = readAll(t, paths)
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))

	segments = twoSegments()
	segments[1].Records[1].Index = 6
	dir = t.TempDir()
	paths, err = journaltest.WriteSegments(dir, name, segments...)
	require.NoError(t, err)
	_, err = readAll(t, paths)
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
}

func TestPositionsMustIncrease(t *testing.T) {
	dir := t.TempDir()
	segments := twoSegments()
	segments[1].Records[0] = journaltest.Application(4, 2, entry(2, 1, journal.ValueTypeJob, 0))
	paths, err := journaltest.WriteSegments(dir, name, segments...)
	require.NoError(t, err)

	_, err = readAll(t, paths)
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
	var zerr *zberr.Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, int64(2), zerr.Position)
}

func frame(payload []byte) []byte {
	enc := zbuf.NewEncoder(journal.Encoding)
	enc.WriteUint32(uint32(len(payload)))
	enc.WriteUint64(xxhash.Sum64(payload))
	enc.WriteBytes(payload)
	return enc.Bytes()
}

func TestUndecodablePayloadIsCorrupt(t *testing.T) {
	// 校验和正确但记录类型未知，即使在最后一个段也是损坏
	payload := journaltest.EncodePayload(journaltest.Initial(1, 1))
	payload[24] = 9
	data := journaltest.EncodeSegment(journaltest.Segment{ID: 1, FirstIndex: 1})
	data = append(data, frame(payload)...)
	path := journaltest.SegmentPath(t.TempDir(), name, 1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := readAll(t, []string{path})
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))

	// entry长度超出记录
	payload = journaltest.EncodePayload(journaltest.Application(1, 1, entry(1, -1, journal.ValueTypeJob, 0)))
	payload = payload[:len(payload)-1]
	data = journaltest.EncodeSegment(journaltest.Segment{ID: 1, FirstIndex: 1})
	data = append(data, frame(payload)...)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = readAll(t, []string{path})
	assert.True(t, errors.Is(err, zberr.ErrCorruptRecord))
}

func TestEmptyLastSegment(t *testing.T) {
	dir := t.TempDir()
	paths, err := journaltest.WriteSegments(dir, name, twoSegments()...)
	require.NoError(t, err)
	empty := journaltest.SegmentPath(dir, name, 3)
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	content, err := readAll(t, append(paths, empty))
	require.NoError(t, err)
	assert.Len(t, content.Records, 5)
}

func TestListSegments(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{name + "-10.log", name + "-2.log", name + ".meta", name + "-x.log", "other-1.log"} {
		require.NoError(t, os.WriteFile(dir+"/"+f, nil, 0644))
	}
	segments, err := journal.ListSegments(dir, name)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, uint64(2), segments[0].ID)
	assert.Equal(t, uint64(10), segments[1].ID)

	_, err = journal.Open(t.TempDir(), name)
	assert.True(t, errors.Is(err, zberr.ErrStorageUnavailable))
}

func TestProcessInstanceRelated(t *testing.T) {
	v := journal.RecordValue{
		"bpmnElementType":      "SERVICE_TASK",
		"processInstanceKey":   int64(42),
		"processDefinitionKey": uint64(7),
	}
	p := v.ProcessInstanceRelated()
	require.NotNil(t, p.BpmnElementType)
	assert.Equal(t, "SERVICE_TASK", *p.BpmnElementType)
	assert.Equal(t, int64(42), *p.ProcessInstanceKey)
	assert.Equal(t, int64(7), *p.ProcessDefinitionKey)

	p = journal.RecordValue{"processInstanceKey": nil}.ProcessInstanceRelated()
	assert.Nil(t, p.BpmnElementType)
	assert.Nil(t, p.ProcessInstanceKey)
	assert.Nil(t, p.ProcessDefinitionKey)
}
