package zeebe

// Job is the job record stored in JOBS.
type Job struct {
	Deadline                 int64             `msgpack:"deadline" json:"deadline"`
	Timeout                  int64             `msgpack:"timeout" json:"timeout"`
	Worker                   string            `msgpack:"worker" json:"worker"`
	Retries                  int32             `msgpack:"retries" json:"retries"`
	RecurringTime            int64             `msgpack:"recurringTime" json:"recurringTime"`
	Type                     string            `msgpack:"type" json:"type"`
	CustomHeaders            map[string]string `msgpack:"customHeaders" json:"customHeaders"`
	Variables                string            `msgpack:"variables" json:"variables"`
	ErrorMessage             string            `msgpack:"errorMessage" json:"errorMessage"`
	ErrorCode                string            `msgpack:"errorCode" json:"errorCode"`
	BpmnProcessId            string            `msgpack:"bpmnProcessId" json:"bpmnProcessId"`
	ProcessDefinitionKey     int64             `msgpack:"processDefinitionKey" json:"processDefinitionKey"`
	ProcessDefinitionVersion int64             `msgpack:"processDefinitionVersion" json:"processDefinitionVersion"`
	ProcessInstanceKey       int64             `msgpack:"processInstanceKey" json:"processInstanceKey"`
	JobKind                  string            `msgpack:"jobKind" json:"jobKind"`
	ElementInstanceKey       int64             `msgpack:"elementInstanceKey" json:"elementInstanceKey"`
	ElementId                string            `msgpack:"elementId" json:"elementId"`
	TenantId                 string            `msgpack:"tenantId" json:"tenantId"`
}

// JobValue is the JOBS value envelope.
type JobValue struct {
	JobRecord Job `msgpack:"jobRecord" json:"jobRecord"`
}

// JobStateValue is the JOB_STATES value.
type JobStateValue struct {
	JobState string `msgpack:"jobState" json:"jobState"`
}

// ProcessValue is a deployed process definition stored in PROCESS_CACHE.
type ProcessValue struct {
	BpmnProcessId string `msgpack:"bpmnProcessId" json:"bpmnProcessId"`
	Key           int64  `msgpack:"key" json:"key"`
	Version       int32  `msgpack:"version" json:"version"`
	ResourceName  string `msgpack:"resourceName" json:"resourceName"`
	Resource      []byte `msgpack:"resource" json:"-"`
	Checksum      []byte `msgpack:"checksum" json:"-"`
	TenantId      string `msgpack:"tenantId" json:"tenantId"`
	State         string `msgpack:"state" json:"state,omitempty"`
}
