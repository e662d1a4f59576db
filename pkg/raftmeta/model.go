package raftmeta

import (
	"fmt"
	"time"
)

// MetaRecord is the vote/commit state persisted in the .meta file.
type MetaRecord struct {
	Term             uint64
	LastFlushedIndex uint64
	CommitIndex      uint64
	// VotedFor is nil when no vote was cast in Term.
	VotedFor *string
}

// MemberType 成员类型
type MemberType uint8

const (
	MemberTypeInactive MemberType = iota
	MemberTypePassive
	MemberTypePromotable
	MemberTypeActive
)

func (m MemberType) String() string {
	switch m {
	case MemberTypeInactive:
		return "INACTIVE"
	case MemberTypePassive:
		return "PASSIVE"
	case MemberTypePromotable:
		return "PROMOTABLE"
	case MemberTypeActive:
		return "ACTIVE"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
}

type Member struct {
	ID          string
	Hash        int32
	Type        MemberType
	LastUpdated time.Time
}

// Configuration is the cluster configuration persisted in the .conf file.
//
// During joint consensus both member sets are authoritative and may overlap. Outside of it
// OldMembers is empty.
type Configuration struct {
	Index                  uint64
	Term                   uint64
	Time                   uint64
	Force                  bool
	RequiresJointConsensus bool
	NewMembers             []Member
	OldMembers             []Member
}
