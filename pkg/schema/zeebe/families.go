// Package zeebe is the value schema table of the workflow engine whose partitions are
// inspected. Family tags follow the engine's 8.x column family ordinals; a schema file can
// override them for other versions.
package zeebe

import (
	"github.com/WuKongIM/zdb/pkg/schema"
)

// 列族
const (
	Default                                = "DEFAULT"
	Key                                    = "KEY"
	ProcessVersion                         = "PROCESS_VERSION"
	ProcessCache                           = "PROCESS_CACHE"
	ProcessCacheByIdAndVersion             = "PROCESS_CACHE_BY_ID_AND_VERSION"
	ProcessCacheDigestById                 = "PROCESS_CACHE_DIGEST_BY_ID"
	ElementInstanceParentChild             = "ELEMENT_INSTANCE_PARENT_CHILD"
	ElementInstanceKey                     = "ELEMENT_INSTANCE_KEY"
	NumberOfTakenSequenceFlows             = "NUMBER_OF_TAKEN_SEQUENCE_FLOWS"
	ElementInstanceChildParent             = "ELEMENT_INSTANCE_CHILD_PARENT"
	Variables                              = "VARIABLES"
	TemporaryVariableStore                 = "TEMPORARY_VARIABLE_STORE"
	Timers                                 = "TIMERS"
	TimerDueDates                          = "TIMER_DUE_DATES"
	PendingDeployment                      = "PENDING_DEPLOYMENT"
	DeploymentRaw                          = "DEPLOYMENT_RAW"
	Jobs                                   = "JOBS"
	JobStates                              = "JOB_STATES"
	JobDeadlines                           = "JOB_DEADLINES"
	JobActivatable                         = "JOB_ACTIVATABLE"
	MessageKey                             = "MESSAGE_KEY"
	Messages                               = "MESSAGES"
	MessageDeadlines                       = "MESSAGE_DEADLINES"
	MessageIds                             = "MESSAGE_IDS"
	MessageCorrelated                      = "MESSAGE_CORRELATED"
	MessageProcessesActiveByCorrelationKey = "MESSAGE_PROCESSES_ACTIVE_BY_CORRELATION_KEY"
	MessageProcessInstanceCorrelationKeys  = "MESSAGE_PROCESS_INSTANCE_CORRELATION_KEYS"
	MessageSubscriptionByKey               = "MESSAGE_SUBSCRIPTION_BY_KEY"
	Incidents                              = "INCIDENTS"
	IncidentProcessInstances               = "INCIDENT_PROCESS_INSTANCES"
	IncidentJobs                           = "INCIDENT_JOBS"
	EventScope                             = "EVENT_SCOPE"
	EventTrigger                           = "EVENT_TRIGGER"
	BannedInstance                         = "BANNED_INSTANCE"
	Exporter                               = "EXPORTER"
)

type family struct {
	name    string
	tag     uint64
	decoder schema.Decoder
	kind    string
}

func families() []family {
	msgpack := schema.DecoderFunc(schema.DecodeMsgpack)
	nilValue, _ := schema.DecoderForKind(schema.KindNil)
	raw, _ := schema.DecoderForKind(schema.KindRaw)
	return []family{
		{Default, 0, raw, schema.KindRaw},
		{Key, 1, msgpack, schema.KindMsgpack},
		{ProcessVersion, 2, msgpack, schema.KindMsgpack},
		{ProcessCache, 3, schema.Msgpack[ProcessValue](), "process"},
		{ProcessCacheByIdAndVersion, 4, msgpack, schema.KindMsgpack},
		{ProcessCacheDigestById, 5, msgpack, schema.KindMsgpack},
		{ElementInstanceParentChild, 6, nilValue, schema.KindNil},
		{ElementInstanceKey, 7, msgpack, schema.KindMsgpack},
		{NumberOfTakenSequenceFlows, 8, msgpack, schema.KindMsgpack},
		{ElementInstanceChildParent, 9, msgpack, schema.KindMsgpack},
		{Variables, 10, msgpack, schema.KindMsgpack},
		{TemporaryVariableStore, 11, msgpack, schema.KindMsgpack},
		{Timers, 12, msgpack, schema.KindMsgpack},
		{TimerDueDates, 13, nilValue, schema.KindNil},
		{PendingDeployment, 14, msgpack, schema.KindMsgpack},
		{DeploymentRaw, 15, msgpack, schema.KindMsgpack},
		{Jobs, 16, schema.Msgpack[JobValue](), "job"},
		{JobStates, 17, schema.Msgpack[JobStateValue](), "jobState"},
		{JobDeadlines, 18, nilValue, schema.KindNil},
		{JobActivatable, 19, nilValue, schema.KindNil},
		{MessageKey, 20, msgpack, schema.KindMsgpack},
		{Messages, 21, msgpack, schema.KindMsgpack},
		{MessageDeadlines, 22, nilValue, schema.KindNil},
		{MessageIds, 23, nilValue, schema.KindNil},
		{MessageCorrelated, 24, nilValue, schema.KindNil},
		{MessageProcessesActiveByCorrelationKey, 25, nilValue, schema.KindNil},
		{MessageProcessInstanceCorrelationKeys, 26, msgpack, schema.KindMsgpack},
		{MessageSubscriptionByKey, 27, msgpack, schema.KindMsgpack},
		{Incidents, 32, msgpack, schema.KindMsgpack},
		{IncidentProcessInstances, 33, msgpack, schema.KindMsgpack},
		{IncidentJobs, 34, msgpack, schema.KindMsgpack},
		{EventScope, 35, msgpack, schema.KindMsgpack},
		{EventTrigger, 36, msgpack, schema.KindMsgpack},
		{BannedInstance, 38, nilValue, schema.KindNil},
		{Exporter, 39, msgpack, schema.KindMsgpack},
	}
}

// Registry returns a new registry holding the engine's families.
func Registry() *schema.Registry {
	r := schema.NewRegistry()
	for _, f := range families() {
		if err := r.RegisterKind(f.name, f.tag, f.decoder, f.kind); err != nil {
			panic(err)
		}
	}
	return r
}
