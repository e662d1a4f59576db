package state

import (
	"github.com/WuKongIM/zdb/pkg/schema/zeebe"
	"github.com/WuKongIM/zdb/pkg/zdb"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
)

// ProcessMeta is the listing view of a deployed process.
type ProcessMeta struct {
	BpmnProcessId string `json:"bpmnProcessId"`
	Key           int64  `json:"processDefinitionKey"`
	Version       int32  `json:"version"`
	ResourceName  string `json:"resourceName"`
	TenantId      string `json:"tenantId,omitempty"`
}

// ProcessDetails adds the deployed resource.
type ProcessDetails struct {
	ProcessMeta
	Resource string `json:"resource"`
}

func newProcessMeta(v zeebe.ProcessValue) ProcessMeta {
	return ProcessMeta{
		BpmnProcessId: v.BpmnProcessId,
		Key:           v.Key,
		Version:       v.Version,
		ResourceName:  v.ResourceName,
		TenantId:      v.TenantId,
	}
}

type ProcessState struct {
	store *zdb.Store
}

func NewProcessState(store *zdb.Store) *ProcessState {
	return &ProcessState{store: store}
}

// ListProcesses returns every cached process definition in key order.
func (p *ProcessState) ListProcesses() ([]ProcessMeta, error) {
	processes := make([]ProcessMeta, 0)
	_, err := zdb.Scan[zeebe.ProcessValue](p.store, zeebe.ProcessCache, nil, func(rawKey []byte, value zeebe.ProcessValue) bool {
		processes = append(processes, newProcessMeta(value))
		return true
	})
	if err != nil {
		return nil, err
	}
	return processes, nil
}

// Process looks up one process definition by its key.
func (p *ProcessState) Process(processDefinitionKey int64) (*ProcessDetails, error) {
	v, err := zdb.Get[zeebe.ProcessValue](p.store, zeebe.ProcessCache, key.Int64(processDefinitionKey))
	if err != nil {
		return nil, err
	}
	return &ProcessDetails{
		ProcessMeta: newProcessMeta(v),
		Resource:    string(v.Resource),
	}, nil
}
