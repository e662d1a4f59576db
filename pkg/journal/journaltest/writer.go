// Package journaltest writes journal segments for tests.
package journaltest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/WuKongIM/zdb/pkg/journal"
	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/raftmeta/raftmetatest"
	"github.com/WuKongIM/zdb/pkg/zbuf"
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

type Entry struct {
	Position   int64
	Source     int64
	Key        int64
	Timestamp  int64
	RecordType journal.RecordType
	ValueType  journal.ValueType
	Intent     uint8
	Value      map[string]any
}

type Record struct {
	Index         uint64
	Term          uint64
	Asqn          int64
	Kind          journal.Kind
	Configuration *raftmeta.Configuration
	Lowest        int64
	Highest       int64
	Entries       []Entry
}

// Application builds an application record spanning the positions of entries.
func Application(index, term uint64, entries ...Entry) Record {
	r := Record{Index: index, Term: term, Kind: journal.KindApplication, Entries: entries}
	if len(entries) > 0 {
		r.Lowest = entries[0].Position
		r.Highest = entries[len(entries)-1].Position
		r.Asqn = r.Highest
	}
	return r
}

func Initial(index, term uint64) Record {
	return Record{Index: index, Term: term, Asqn: -1, Kind: journal.KindInitial}
}

func Configuration(index, term uint64, c raftmeta.Configuration) Record {
	return Record{Index: index, Term: term, Asqn: -1, Kind: journal.KindConfiguration, Configuration: &c}
}

type Segment struct {
	ID         uint64
	FirstIndex uint64
	Records    []Record
	// Preallocated zero bytes after the last frame
	Preallocated int
}

func EncodeSegment(s Segment) []byte {
	enc := zbuf.NewEncoder(journal.Encoding)
	enc.WriteUint8(journal.DescriptorVersion)
	enc.WriteUint64(s.ID)
	enc.WriteUint64(s.FirstIndex)
	enc.WriteUint32(32 * 1024 * 1024)
	for _, r := range s.Records {
		payload := EncodePayload(r)
		enc.WriteUint32(uint32(len(payload)))
		enc.WriteUint64(xxhash.Sum64(payload))
		enc.WriteBytes(payload)
	}
	enc.WriteBytes(make([]byte, s.Preallocated))
	return enc.Bytes()
}

func EncodePayload(r Record) []byte {
	enc := zbuf.NewEncoder(journal.Encoding)
	enc.WriteUint64(r.Index)
	enc.WriteInt64(r.Asqn)
	enc.WriteUint64(r.Term)
	switch r.Kind {
	case journal.KindApplication:
		enc.WriteUint8(1)
		enc.WriteInt64(r.Lowest)
		enc.WriteInt64(r.Highest)
		enc.WriteUint32(uint32(len(r.Entries)))
		for _, e := range r.Entries {
			enc.WriteBinary(EncodeEntry(e))
		}
	case journal.KindInitial:
		enc.WriteUint8(2)
	case journal.KindConfiguration:
		enc.WriteUint8(3)
		raftmetatest.WriteConfiguration(enc, *r.Configuration)
	}
	return enc.Bytes()
}

func EncodeEntry(e Entry) []byte {
	enc := zbuf.NewEncoder(journal.Encoding)
	enc.WriteInt64(e.Position)
	enc.WriteInt64(e.Source)
	enc.WriteInt64(e.Key)
	enc.WriteInt64(e.Timestamp)
	enc.WriteUint8(uint8(e.RecordType))
	enc.WriteUint8(uint8(e.ValueType))
	enc.WriteUint8(e.Intent)
	var value []byte
	if e.Value != nil {
		var err error
		if value, err = msgpack.Marshal(e.Value); err != nil {
			panic(err)
		}
	}
	enc.WriteBinary(value)
	return enc.Bytes()
}

func SegmentPath(dir, name string, id uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.log", name, id))
}

// WriteSegments writes every segment of the journal name into dir and returns their paths.
func WriteSegments(dir, name string, segments ...Segment) ([]string, error) {
	paths := make([]string, 0, len(segments))
	for _, s := range segments {
		p := SegmentPath(dir, name, s.ID)
		if err := os.WriteFile(p, EncodeSegment(s), 0644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
