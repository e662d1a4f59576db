package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/WuKongIM/zdb/pkg/journal"
	"github.com/WuKongIM/zdb/pkg/journal/journaltest"
	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/raftmeta/raftmetatest"
	"github.com/WuKongIM/zdb/pkg/schema/zeebe"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zdb/zdbtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	ctx.out = &out
	ctx.err = &errOut
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func partition(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "1")
	voted := "0"
	err := raftmetatest.WritePartition(dir,
		raftmeta.MetaRecord{Term: 3, LastFlushedIndex: 3, CommitIndex: 3, VotedFor: &voted},
		raftmeta.Configuration{
			Index: 1, Term: 1, Time: 1709287200000,
			NewMembers: []raftmeta.Member{{ID: "0", Hash: 48, Type: raftmeta.MemberTypeActive, LastUpdated: time.UnixMilli(1709287200000)}},
		})
	require.NoError(t, err)
	_, err = journaltest.WriteSegments(dir, "raft-partition-partition-1", journaltest.Segment{
		ID:         1,
		FirstIndex: 1,
		Records: []journaltest.Record{
			journaltest.Initial(1, 1),
			journaltest.Application(2, 1,
				journaltest.Entry{Position: 1, Source: -1, Key: -1, RecordType: journal.RecordTypeCommand, ValueType: journal.ValueTypeJob, Intent: 0},
				journaltest.Entry{Position: 2, Source: 1, Key: 5, ValueType: journal.ValueTypeJob, Intent: 0},
			),
		},
	})
	require.NoError(t, err)
	return dir
}

func TestRaftStatusCommand(t *testing.T) {
	dir := partition(t)

	out, err := run(t, "raft", "status", "-p", dir, "-f", "json")
	require.NoError(t, err)
	var details map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &details))
	assert.EqualValues(t, 3, details["meta"]["term"])
	assert.Equal(t, "0", details["meta"]["votedFor"])

	out, err = run(t, "raft", "status", "-p", dir, "-f", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Raft Status for partition '1'")
}

func TestLogCommands(t *testing.T) {
	dir := partition(t)

	out, err := run(t, "log", "dot", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph log {")
	assert.Contains(t, out, "2 -> 1;")

	out, err = run(t, "log", "print", "-p", dir)
	require.NoError(t, err)
	var content map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Len(t, content["records"], 2)

	out, err = run(t, "log", "search", "-p", dir, "--position", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"sourceRecordPosition": 1`)
}

func TestStateCommands(t *testing.T) {
	dir := t.TempDir()
	jobs, _, err := zeebe.Registry().Lookup(zeebe.Jobs)
	require.NoError(t, err)
	states, _, err := zeebe.Registry().Lookup(zeebe.JobStates)
	require.NoError(t, err)
	require.NoError(t, zdbtest.Write(dir,
		zdbtest.Int64Record(jobs.Tag, 7, zdbtest.Msgpack(zeebe.JobValue{JobRecord: zeebe.Job{Type: "mail", ProcessInstanceKey: 3}})),
		zdbtest.Int64Record(states.Tag, 7, zdbtest.Msgpack(zeebe.JobStateValue{JobState: "ACTIVATABLE"})),
	))

	out, err := run(t, "jobs", "key", "3", "-p", dir)
	require.NoError(t, err)
	var found []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "ACTIVATABLE", found[0]["state"])

	out, err = run(t, "state", "get", "JOB_STATES", "7", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVATABLE")

	_, err = run(t, "state", "get", "JOB_STATES", "8", "-p", dir)
	assert.True(t, errors.Is(err, zberr.ErrNotFound))

	_, err = run(t, "state", "list", "JOBS", "-p", filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, zberr.ErrStorageUnavailable))
}
