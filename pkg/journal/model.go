package journal

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/WuKongIM/zdb/pkg/raftmeta"
	"github.com/WuKongIM/zdb/pkg/raftstatus"
	"github.com/spf13/cast"
)

// Kind discriminates persisted records.
type Kind uint8

const (
	KindApplication Kind = iota + 1
	KindInitial
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindApplication:
		return "APPLICATION"
	case KindInitial:
		return "INITIAL"
	case KindConfiguration:
		return "CONFIGURATION"
	}
	return "UNKNOWN"
}

// PersistedRecord is one journal entry. Exactly one of Configuration and Application is set
// for the kinds that carry a body.
type PersistedRecord struct {
	Kind     Kind
	Index    uint64
	Term     uint64
	Asqn     int64
	Checksum uint64

	Configuration *raftmeta.Configuration
	Application   *ApplicationRecord
}

func (p *PersistedRecord) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"kind":     p.Kind.String(),
		"index":    p.Index,
		"term":     p.Term,
		"checksum": p.Checksum,
	}
	switch p.Kind {
	case KindApplication:
		out["asqn"] = p.Asqn
		out["lowestPosition"] = p.Application.LowestPosition
		out["highestPosition"] = p.Application.HighestPosition
		out["entries"] = p.Application.Entries
	case KindConfiguration:
		out["configuration"] = raftstatus.NewConfigDetails(p.Configuration)
	}
	return json.Marshal(out)
}

// ApplicationRecord is a batch of state machine entries.
type ApplicationRecord struct {
	LowestPosition  int64
	HighestPosition int64
	Entries         []Entry
}

// Entry is one state machine record inside an application record.
type Entry struct {
	Index                uint64      `json:"index"`
	Term                 uint64      `json:"term"`
	Position             int64       `json:"position"`
	SourceRecordPosition int64       `json:"sourceRecordPosition"`
	Key                  int64       `json:"key"`
	Timestamp            time.Time   `json:"timestamp"`
	RecordType           RecordType  `json:"recordType"`
	ValueType            ValueType   `json:"valueType"`
	Intent               string      `json:"intent"`
	Value                RecordValue `json:"value"`
}

// HasSource reports whether the entry was caused by another record.
func (e *Entry) HasSource() bool {
	return e.SourceRecordPosition != -1
}

// RecordValue is the decoded value document of an entry.
type RecordValue map[string]any

// ProcessInstanceRelated holds the process scoped fields of a value. Absent fields are nil.
type ProcessInstanceRelated struct {
	BpmnElementType      *string `json:"bpmnElementType,omitempty"`
	ProcessInstanceKey   *int64  `json:"processInstanceKey,omitempty"`
	ProcessDefinitionKey *int64  `json:"processDefinitionKey,omitempty"`
}

func (v RecordValue) ProcessInstanceRelated() ProcessInstanceRelated {
	var p ProcessInstanceRelated
	if s, ok := v["bpmnElementType"].(string); ok && s != "" {
		p.BpmnElementType = &s
	}
	p.ProcessInstanceKey = v.int64Field("processInstanceKey")
	p.ProcessDefinitionKey = v.int64Field("processDefinitionKey")
	return p
}

func (v RecordValue) int64Field(name string) *int64 {
	raw, ok := v[name]
	if !ok || raw == nil {
		return nil
	}
	i, err := cast.ToInt64E(raw)
	if err != nil {
		return nil
	}
	return &i
}

// LogContent is the ordered content of a journal.
type LogContent struct {
	Records []*PersistedRecord `json:"records"`
}

// Entries flattens the application entries in log order.
func (l *LogContent) Entries() []Entry {
	var entries []Entry
	for _, r := range l.Records {
		if r.Kind == KindApplication {
			entries = append(entries, r.Application.Entries...)
		}
	}
	return entries
}

// FindIndex returns the record with the journal index.
func (l *LogContent) FindIndex(index uint64) (*PersistedRecord, bool) {
	i := sort.Search(len(l.Records), func(i int) bool {
		return l.Records[i].Index >= index
	})
	if i < len(l.Records) && l.Records[i].Index == index {
		return l.Records[i], true
	}
	return nil, false
}

// FindPosition returns the entry with the position and the record holding it.
func (l *LogContent) FindPosition(position int64) (*Entry, *PersistedRecord, bool) {
	for _, r := range l.Records {
		if r.Kind != KindApplication {
			continue
		}
		app := r.Application
		if position < app.LowestPosition || position > app.HighestPosition {
			continue
		}
		i := sort.Search(len(app.Entries), func(i int) bool {
			return app.Entries[i].Position >= position
		})
		if i < len(app.Entries) && app.Entries[i].Position == position {
			return &app.Entries[i], r, true
		}
		return nil, nil, false
	}
	return nil, nil, false
}
