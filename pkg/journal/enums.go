package journal

import (
	"encoding/json"
	"fmt"
)

type RecordType uint8

const (
	RecordTypeEvent RecordType = iota
	RecordTypeCommand
	RecordTypeCommandRejection
)

func (r RecordType) String() string {
	switch r {
	case RecordTypeEvent:
		return "EVENT"
	case RecordTypeCommand:
		return "COMMAND"
	case RecordTypeCommandRejection:
		return "COMMAND_REJECTION"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
}

func (r RecordType) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

type ValueType uint8

const (
	ValueTypeJob                           ValueType = 0
	ValueTypeDeployment                    ValueType = 4
	ValueTypeProcessInstance               ValueType = 5
	ValueTypeIncident                      ValueType = 6
	ValueTypeMessage                       ValueType = 10
	ValueTypeMessageSubscription           ValueType = 11
	ValueTypeProcessMessageSubscription    ValueType = 12
	ValueTypeJobBatch                      ValueType = 14
	ValueTypeTimer                         ValueType = 15
	ValueTypeMessageStartEventSubscription ValueType = 16
	ValueTypeVariable                      ValueType = 17
	ValueTypeVariableDocument              ValueType = 18
	ValueTypeProcessInstanceCreation       ValueType = 19
	ValueTypeError                         ValueType = 20
	ValueTypeProcessInstanceResult         ValueType = 21
	ValueTypeProcess                       ValueType = 22
	ValueTypeDeploymentDistribution        ValueType = 23
	ValueTypeProcessEvent                  ValueType = 24
	ValueTypeDecision                      ValueType = 25
	ValueTypeDecisionRequirements          ValueType = 26
	ValueTypeDecisionEvaluation            ValueType = 27
	ValueTypeProcessInstanceModification   ValueType = 28
	ValueTypeEscalation                    ValueType = 29
	ValueTypeSignalSubscription            ValueType = 30
	ValueTypeSignal                        ValueType = 31
	ValueTypeResourceDeletion              ValueType = 32
	ValueTypeCommandDistribution           ValueType = 33
	ValueTypeProcessInstanceBatch          ValueType = 34
	ValueTypeMessageBatch                  ValueType = 35
	ValueTypeForm                          ValueType = 36
	ValueTypeUserTask                      ValueType = 37
	ValueTypeProcessInstanceMigration      ValueType = 38
)

var valueTypeNames = map[ValueType]string{
	ValueTypeJob:                           "JOB",
	ValueTypeDeployment:                    "DEPLOYMENT",
	ValueTypeProcessInstance:               "PROCESS_INSTANCE",
	ValueTypeIncident:                      "INCIDENT",
	ValueTypeMessage:                       "MESSAGE",
	ValueTypeMessageSubscription:           "MESSAGE_SUBSCRIPTION",
	ValueTypeProcessMessageSubscription:    "PROCESS_MESSAGE_SUBSCRIPTION",
	ValueTypeJobBatch:                      "JOB_BATCH",
	ValueTypeTimer:                         "TIMER",
	ValueTypeMessageStartEventSubscription: "MESSAGE_START_EVENT_SUBSCRIPTION",
	ValueTypeVariable:                      "VARIABLE",
	ValueTypeVariableDocument:              "VARIABLE_DOCUMENT",
	ValueTypeProcessInstanceCreation:       "PROCESS_INSTANCE_CREATION",
	ValueTypeError:                         "ERROR",
	ValueTypeProcessInstanceResult:         "PROCESS_INSTANCE_RESULT",
	ValueTypeProcess:                       "PROCESS",
	ValueTypeDeploymentDistribution:        "DEPLOYMENT_DISTRIBUTION",
	ValueTypeProcessEvent:                  "PROCESS_EVENT",
	ValueTypeDecision:                      "DECISION",
	ValueTypeDecisionRequirements:          "DECISION_REQUIREMENTS",
	ValueTypeDecisionEvaluation:            "DECISION_EVALUATION",
	ValueTypeProcessInstanceModification:   "PROCESS_INSTANCE_MODIFICATION",
	ValueTypeEscalation:                    "ESCALATION",
	ValueTypeSignalSubscription:            "SIGNAL_SUBSCRIPTION",
	ValueTypeSignal:                        "SIGNAL",
	ValueTypeResourceDeletion:              "RESOURCE_DELETION",
	ValueTypeCommandDistribution:           "COMMAND_DISTRIBUTION",
	ValueTypeProcessInstanceBatch:          "PROCESS_INSTANCE_BATCH",
	ValueTypeMessageBatch:                  "MESSAGE_BATCH",
	ValueTypeForm:                          "FORM",
	ValueTypeUserTask:                      "USER_TASK",
	ValueTypeProcessInstanceMigration:      "PROCESS_INSTANCE_MIGRATION",
}

func (v ValueType) String() string {
	if name, ok := valueTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(v))
}

func (v ValueType) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// 每种值类型的intent名称，按序号排列
var intentNames = map[ValueType][]string{
	ValueTypeJob:                           {"CREATED", "COMPLETE", "COMPLETED", "TIME_OUT", "TIMED_OUT", "FAIL", "FAILED", "UPDATE_RETRIES", "RETRIES_UPDATED", "CANCELED", "THROW_ERROR", "ERROR_THROWN", "RECUR_AFTER_BACKOFF", "RECURRED_AFTER_BACKOFF", "YIELD", "YIELDED", "UPDATE_TIMEOUT", "TIMEOUT_UPDATED"},
	ValueTypeDeployment:                    {"CREATE", "CREATED", "DISTRIBUTE", "DISTRIBUTED", "FULLY_DISTRIBUTED"},
	ValueTypeProcessInstance:               {"CANCEL", "SEQUENCE_FLOW_TAKEN", "ELEMENT_ACTIVATING", "ELEMENT_ACTIVATED", "ELEMENT_COMPLETING", "ELEMENT_COMPLETED", "ELEMENT_TERMINATING", "ELEMENT_TERMINATED", "ACTIVATE_ELEMENT", "COMPLETE_ELEMENT", "TERMINATE_ELEMENT"},
	ValueTypeIncident:                      {"CREATED", "RESOLVE", "RESOLVED"},
	ValueTypeMessage:                       {"PUBLISH", "PUBLISHED", "EXPIRE", "EXPIRED"},
	ValueTypeMessageSubscription:           {"CREATE", "CREATED", "CORRELATING", "CORRELATE", "CORRELATED", "REJECT", "REJECTED", "DELETE", "DELETED"},
	ValueTypeProcessMessageSubscription:    {"CREATING", "CREATE", "CREATED", "CORRELATE", "CORRELATED", "DELETING", "DELETE", "DELETED"},
	ValueTypeJobBatch:                      {"ACTIVATE", "ACTIVATED"},
	ValueTypeTimer:                         {"CREATED", "TRIGGER", "TRIGGERED", "CANCELED"},
	ValueTypeMessageStartEventSubscription: {"CREATED", "CORRELATED", "DELETED"},
	ValueTypeVariable:                      {"CREATED", "UPDATED", "MIGRATED"},
	ValueTypeVariableDocument:              {"UPDATE", "UPDATED"},
	ValueTypeProcessInstanceCreation:       {"CREATE", "CREATED", "CREATE_WITH_AWAITING_RESULT"},
	ValueTypeError:                         {"CREATED"},
	ValueTypeProcessInstanceResult:         {"COMPLETED"},
	ValueTypeProcess:                       {"CREATED", "DELETING", "DELETED"},
	ValueTypeProcessEvent:                  {"TRIGGERING", "TRIGGERED"},
	ValueTypeDecision:                      {"CREATED", "DELETED"},
	ValueTypeDecisionRequirements:          {"CREATED", "DELETED"},
	ValueTypeDecisionEvaluation:            {"EVALUATED", "FAILED"},
	ValueTypeSignal:                        {"BROADCAST", "BROADCASTED"},
	ValueTypeUserTask:                      {"CREATING", "CREATED", "COMPLETE", "COMPLETING", "COMPLETED", "CANCELING", "CANCELED"},
}

// IntentName resolves the intent ordinal of a value type. Ordinals without a name render as
// INTENT_<n>.
func IntentName(valueType ValueType, intent uint8) string {
	if names, ok := intentNames[valueType]; ok && int(intent) < len(names) {
		return names[intent]
	}
	return fmt.Sprintf("INTENT_%d", intent)
}
