// Package raftmetatest writes raft metadata files in the layouts read by package raftmeta.
package raftmetatest

import (
	"os"
	"path/filepath"

	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/zbuf"
)

func EncodeMeta(m raftmeta.MetaRecord) []byte {
	enc := zbuf.NewEncoder(raftmeta.Encoding)
	enc.WriteUint64(m.Term)
	enc.WriteUint64(m.LastFlushedIndex)
	enc.WriteUint64(m.CommitIndex)
	if m.VotedFor != nil {
		enc.WriteString(*m.VotedFor)
	} else {
		enc.WriteString("")
	}
	return enc.Bytes()
}

func EncodeConfiguration(c raftmeta.Configuration) []byte {
	enc := zbuf.NewEncoder(raftmeta.Encoding)
	WriteConfiguration(enc, c)
	return enc.Bytes()
}

// WriteConfiguration appends the configuration layout to enc.
func WriteConfiguration(enc *zbuf.Encoder, c raftmeta.Configuration) {
	enc.WriteUint64(c.Index)
	enc.WriteUint64(c.Term)
	enc.WriteUint64(c.Time)
	enc.WriteBool(c.Force)
	enc.WriteBool(c.RequiresJointConsensus)
	writeMembers(enc, c.NewMembers)
	writeMembers(enc, c.OldMembers)
}

func writeMembers(enc *zbuf.Encoder, members []raftmeta.Member) {
	enc.WriteUint32(uint32(len(members)))
	for _, m := range members {
		enc.WriteString(m.ID)
		enc.WriteInt32(m.Hash)
		enc.WriteUint8(uint8(m.Type))
		enc.WriteInt64(m.LastUpdated.UnixMilli())
	}
}

// MetaPath returns the .meta path for the partition directory dir.
func MetaPath(dir string) string {
	return filepath.Join(dir, "raft-partition-partition-"+filepath.Base(dir)+".meta")
}

// ConfigPath returns the .conf path for the partition directory dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "raft-partition-partition-"+filepath.Base(dir)+".conf")
}

// WritePartition writes both metadata files into the partition directory dir.
func WritePartition(dir string, m raftmeta.MetaRecord, c raftmeta.Configuration) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(MetaPath(dir), EncodeMeta(m), 0644); err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(dir), EncodeConfiguration(c), 0644)
}
