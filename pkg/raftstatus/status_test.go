package raftstatus_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/raftmeta/raftmetatest"
	"github.com/WuKongIM/zdb/pkg/raftstatus"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartition(t *testing.T, voted *string) string {
	dir := filepath.Join(t.TempDir(), "1")
	updated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	err := raftmetatest.WritePartition(dir,
		raftmeta.MetaRecord{Term: 2, LastFlushedIndex: 30, CommitIndex: 29, VotedFor: voted},
		raftmeta.Configuration{
			Index: 1, Term: 1, Time: 1709287200000,
			NewMembers: []raftmeta.Member{
				{ID: "0", Hash: 48, Type: raftmeta.MemberTypeActive, LastUpdated: updated},
				{ID: "1", Hash: 49, Type: raftmeta.MemberTypeActive, LastUpdated: updated},
			},
		})
	require.NoError(t, err)
	return dir
}

func TestStatusPaths(t *testing.T) {
	s := raftstatus.New("/usr/local/zeebe/data/raft-partition/partitions/3/")
	assert.Equal(t, "3", s.PartitionId())
	assert.Equal(t, "/usr/local/zeebe/data/raft-partition/partitions/3/raft-partition-partition-3.meta", s.MetaPath())
	assert.Equal(t, "/usr/local/zeebe/data/raft-partition/partitions/3/raft-partition-partition-3.conf", s.ConfigPath())
	assert.Equal(t, "raft-partition-partition-3", s.JournalName())
}

func TestStatusDetailsJSON(t *testing.T) {
	voted := "1"
	dir := newPartition(t, &voted)

	details, err := raftstatus.New(dir).Details()
	require.NoError(t, err)

	out, err := details.JSON()
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1", decoded["meta"]["votedFor"])
	assert.Equal(t, float64(29), decoded["meta"]["commitIndex"])
	assert.Equal(t, false, decoded["config"]["requiresJointConsensus"])
	assert.Empty(t, decoded["config"]["oldMembers"])

	members := decoded["config"]["newMembers"].([]any)
	require.Len(t, members, 2)
	first := members[0].(map[string]any)
	assert.Equal(t, "0", first["id"])
	assert.Equal(t, "ACTIVE", first["type"])
	assert.Equal(t, "2024-03-01T10:00:00Z", first["lastUpdated"])
}

func TestStatusDetailsNoVote(t *testing.T) {
	details, err := raftstatus.New(newPartition(t, nil)).Details()
	require.NoError(t, err)
	assert.Equal(t, "", details.Meta.VotedFor)
}

func TestStatusTable(t *testing.T) {
	details, err := raftstatus.New(newPartition(t, nil)).Details()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, details.WriteTable(&buf, "1"))
	out := buf.String()
	assert.Contains(t, out, "Raft Status for partition '1':")
	assert.Contains(t, out, "Commit Index:            29")
	assert.Contains(t, out, "Id: 1, Type: ACTIVE, Hash: 49")
	assert.Contains(t, out, "Old Members:             []")
}

func TestStatusMissingConfig(t *testing.T) {
	dir := newPartition(t, nil)
	require.NoError(t, os.Remove(raftmetatest.ConfigPath(dir)))

	_, err := raftstatus.New(dir).Details()
	assert.ErrorIs(t, err, zberr.ErrStorageUnavailable)
}
