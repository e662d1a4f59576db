package raftstatus

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/WuKongIM/zdb/pkg/raftmeta"
)

const filePrefix = "raft-partition-partition-"

// Status derives the metadata file paths of one partition from its directory name, which
// ends with the partition id.
type Status struct {
	partitionId string
	metaPath    string
	configPath  string
}

func New(partitionDir string) *Status {
	partitionId := filepath.Base(filepath.Clean(partitionDir))
	return &Status{
		partitionId: partitionId,
		metaPath:    filepath.Join(partitionDir, filePrefix+partitionId+".meta"),
		configPath:  filepath.Join(partitionDir, filePrefix+partitionId+".conf"),
	}
}

func (s *Status) PartitionId() string { return s.partitionId }
func (s *Status) MetaPath() string    { return s.metaPath }
func (s *Status) ConfigPath() string  { return s.configPath }

// JournalName is the segment file prefix of the partition's journal.
func (s *Status) JournalName() string { return filePrefix + s.partitionId }

// Details reads both metadata files.
func (s *Status) Details() (*Details, error) {
	meta, err := raftmeta.ReadMeta(s.metaPath)
	if err != nil {
		return nil, err
	}
	cfg, err := raftmeta.ReadConfig(s.configPath)
	if err != nil {
		return nil, err
	}
	return NewDetails(meta, cfg), nil
}

type Details struct {
	Meta   MetaDetails   `json:"meta"`
	Config ConfigDetails `json:"config"`
}

type MetaDetails struct {
	Term             uint64 `json:"term"`
	LastFlushedIndex uint64 `json:"lastFlushedIndex"`
	CommitIndex      uint64 `json:"commitIndex"`
	VotedFor         string `json:"votedFor"` // 未投票时为空
}

type ConfigDetails struct {
	Index                  uint64          `json:"index"`
	Term                   uint64          `json:"term"`
	Time                   uint64          `json:"time"`
	Force                  bool            `json:"force"`
	RequiresJointConsensus bool            `json:"requiresJointConsensus"`
	NewMembers             []MemberDetails `json:"newMembers"`
	OldMembers             []MemberDetails `json:"oldMembers"`
}

type MemberDetails struct {
	Id          string `json:"id"`
	Hash        int32  `json:"hash"`
	Type        string `json:"type"`
	LastUpdated string `json:"lastUpdated"`
}

func NewDetails(meta *raftmeta.MetaRecord, cfg *raftmeta.Configuration) *Details {
	d := &Details{
		Meta: MetaDetails{
			Term:             meta.Term,
			LastFlushedIndex: meta.LastFlushedIndex,
			CommitIndex:      meta.CommitIndex,
		},
		Config: NewConfigDetails(cfg),
	}
	if meta.VotedFor != nil {
		d.Meta.VotedFor = *meta.VotedFor
	}
	return d
}

// NewConfigDetails renders a configuration, also used for journal configuration records.
func NewConfigDetails(cfg *raftmeta.Configuration) ConfigDetails {
	return ConfigDetails{
		Index:                  cfg.Index,
		Term:                   cfg.Term,
		Time:                   cfg.Time,
		Force:                  cfg.Force,
		RequiresJointConsensus: cfg.RequiresJointConsensus,
		NewMembers:             toMemberDetails(cfg.NewMembers),
		OldMembers:             toMemberDetails(cfg.OldMembers),
	}
}

func toMemberDetails(members []raftmeta.Member) []MemberDetails {
	details := make([]MemberDetails, 0, len(members))
	for _, m := range members {
		details = append(details, MemberDetails{
			Id:          m.ID,
			Hash:        m.Hash,
			Type:        m.Type.String(),
			LastUpdated: m.LastUpdated.UTC().Format(time.RFC3339Nano),
		})
	}
	return details
}

func (d *Details) JSON() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTable renders the details as the human readable status table.
func (d *Details) WriteTable(w io.Writer, partitionId string) error {
	line := strings.Repeat("-", 62)
	_, err := fmt.Fprintf(w, `%s
Raft Status for partition '%s':
%s
Meta Store:
    Term:                    %d
    Last Flushed Index:      %d
    Commit Index:            %d
    Voted For:               %s
%s
Configuration:
    Index:                   %d
    Term:                    %d
    Time:                    %d
    Force:                   %t
    Requires Join Consensus: %t
    New Members:             %s
    Old Members:             %s
%s
`,
		line, partitionId, line,
		d.Meta.Term, d.Meta.LastFlushedIndex, d.Meta.CommitIndex, d.Meta.VotedFor,
		line,
		d.Config.Index, d.Config.Term, d.Config.Time, d.Config.Force, d.Config.RequiresJointConsensus,
		formatMembers(d.Config.NewMembers), formatMembers(d.Config.OldMembers),
		line)
	return err
}

func formatMembers(members []MemberDetails) string {
	if len(members) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, m := range members {
		fmt.Fprintf(&b, "\t\tId: %s, Type: %s, Hash: %d, Updated: %s\n", m.Id, m.Type, m.Hash, m.LastUpdated)
	}
	b.WriteString("    ]")
	return b.String()
}
