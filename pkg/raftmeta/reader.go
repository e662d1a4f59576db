package raftmeta

import (
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zbuf"
	"github.com/pkg/errors"
)

var (
	// Encoding is the byte order of the .meta and .conf layouts.
	Encoding = binary.LittleEndian

	// MetaFixedSize term + lastFlushedIndex + commitIndex + votedForLen
	MetaFixedSize = 8 + 8 + 8 + 4
	// MetaBufferSize is the capacity of the accumulating read buffer for .meta files.
	MetaBufferSize = 1024
)

// ReadMeta decodes the meta store record at path.
func ReadMeta(path string) (*MetaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, zberr.StorageUnavailable(path, err)
	}
	defer f.Close()
	return ReadMetaFrom(f, path)
}

// ReadMetaFrom accumulates reads from r into a fixed buffer until it is full or the reader
// signals end of stream, then decodes the buffered bytes. path is only used in errors.
func ReadMetaFrom(r io.Reader, path string) (*MetaRecord, error) {
	buf := make([]byte, MetaBufferSize)
	n := 0
	for n < len(buf) {
		count, err := r.Read(buf[n:])
		n += count
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, zberr.StorageUnavailable(path, errors.Wrap(err, "read meta"))
		}
		if count == 0 {
			break
		}
	}
	meta, err := DecodeMeta(buf[:n])
	if err != nil {
		return nil, zberr.Corrupt(path, err, "meta store record of %d bytes", n)
	}
	return meta, nil
}

// DecodeMeta decodes a meta record from p. Bytes after the record are ignored.
func DecodeMeta(p []byte) (*MetaRecord, error) {
	if len(p) < MetaFixedSize {
		return nil, errors.Wrapf(zbuf.ErrBufferUnderflow, "expected at least %d bytes, got %d", MetaFixedSize, len(p))
	}
	dec := zbuf.NewDecoder(p, Encoding)
	var (
		m   = &MetaRecord{}
		err error
	)
	if m.Term, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "term")
	}
	if m.LastFlushedIndex, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "lastFlushedIndex")
	}
	if m.CommitIndex, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "commitIndex")
	}
	if m.VotedFor, err = dec.OptionalString(); err != nil {
		return nil, errors.Wrap(err, "votedFor")
	}
	return m, nil
}

// ReadConfig decodes the configuration at path. The file is bounded by the cluster size and
// is read in one call.
func ReadConfig(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zberr.StorageUnavailable(path, err)
	}
	cfg, err := DecodeConfiguration(data)
	if err != nil {
		return nil, zberr.Corrupt(path, err, "configuration of %d bytes", len(data))
	}
	return cfg, nil
}

// DecodeConfiguration decodes a configuration from p.
func DecodeConfiguration(p []byte) (*Configuration, error) {
	return decodeConfiguration(zbuf.NewDecoder(p, Encoding))
}

func decodeConfiguration(dec *zbuf.Decoder) (*Configuration, error) {
	var (
		c   = &Configuration{}
		err error
	)
	if c.Index, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "index")
	}
	if c.Term, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "term")
	}
	if c.Time, err = dec.Uint64(); err != nil {
		return nil, errors.Wrap(err, "time")
	}
	if c.Force, err = dec.Bool(); err != nil {
		return nil, errors.Wrap(err, "force")
	}
	if c.RequiresJointConsensus, err = dec.Bool(); err != nil {
		return nil, errors.Wrap(err, "jointConsensus")
	}
	if c.NewMembers, err = decodeMembers(dec); err != nil {
		return nil, errors.Wrap(err, "newMembers")
	}
	if c.OldMembers, err = decodeMembers(dec); err != nil {
		return nil, errors.Wrap(err, "oldMembers")
	}

	if c.RequiresJointConsensus {
		if len(c.NewMembers) == 0 || len(c.OldMembers) == 0 {
			return nil, errors.Errorf("joint consensus with %d new and %d old members", len(c.NewMembers), len(c.OldMembers))
		}
	} else if len(c.OldMembers) != 0 {
		return nil, errors.Errorf("%d old members outside of joint consensus", len(c.OldMembers))
	}
	return c, nil
}

func decodeMembers(dec *zbuf.Decoder) ([]Member, error) {
	count, err := dec.Uint32()
	if err != nil {
		return nil, errors.Wrap(err, "count")
	}
	// 每个成员至少 idLen + hash + type + lastUpdated
	if uint64(count)*(4+4+1+8) > uint64(dec.Len()) {
		return nil, errors.Wrapf(zbuf.ErrBufferUnderflow, "%d members do not fit in %d bytes", count, dec.Len())
	}
	members := make([]Member, 0, count)
	seen := make(map[string]struct{}, count)
	for i := uint32(0); i < count; i++ {
		m, err := decodeMember(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "member %d", i)
		}
		if _, ok := seen[m.ID]; ok {
			return nil, errors.Errorf("duplicate member id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		members = append(members, m)
	}
	return members, nil
}

func decodeMember(dec *zbuf.Decoder) (Member, error) {
	var (
		m   Member
		err error
	)
	if m.ID, err = dec.String(); err != nil {
		return m, errors.Wrap(err, "id")
	}
	if m.Hash, err = dec.Int32(); err != nil {
		return m, errors.Wrap(err, "hash")
	}
	t, err := dec.Uint8()
	if err != nil {
		return m, errors.Wrap(err, "type")
	}
	m.Type = MemberType(t)
	millis, err := dec.Int64()
	if err != nil {
		return m, errors.Wrap(err, "lastUpdated")
	}
	m.LastUpdated = time.UnixMilli(millis).UTC()
	return m, nil
}
