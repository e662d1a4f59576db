package state

import (
	"github.com/WuKongIM/zdb/pkg/schema/zeebe"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zdb"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/pkg/errors"
)

// StateUnknown is reported for a job whose JOB_STATES entry is missing.
const StateUnknown = "UNKNOWN"

// Job is a job joined with its lifecycle state.
type Job struct {
	Key    int64     `json:"key"`
	State  string    `json:"state"`
	Record zeebe.Job `json:"record"`
}

type JobState struct {
	store *zdb.Store
}

func NewJobState(store *zdb.Store) *JobState {
	return &JobState{store: store}
}

// ListJobs scans JOBS in key order. Every job accepted by predicate (nil accepts all) is
// joined with its JOB_STATES entry and passed to visitor; returning false stops the scan.
func (j *JobState) ListJobs(predicate func(job zeebe.Job) bool, visitor func(job Job) bool) (zdb.ScanResult, error) {
	var joinErr error
	result, err := zdb.Scan[zeebe.JobValue](j.store, zeebe.Jobs, func(rawKey []byte, value zeebe.JobValue) bool {
		return predicate == nil || predicate(value.JobRecord)
	}, func(rawKey []byte, value zeebe.JobValue) bool {
		jobKey, err := key.TrailingInt64(rawKey)
		if err != nil {
			joinErr = zberr.CorruptKey(zeebe.Jobs, rawKey, err)
			return false
		}
		state, err := j.State(jobKey)
		if err != nil {
			joinErr = err
			return false
		}
		return visitor(Job{Key: jobKey, State: state, Record: value.JobRecord})
	})
	if err != nil {
		return result, err
	}
	return result, joinErr
}

// State returns the lifecycle state of the job, StateUnknown when none is stored.
func (j *JobState) State(jobKey int64) (string, error) {
	v, err := zdb.Get[zeebe.JobStateValue](j.store, zeebe.JobStates, key.Int64(jobKey))
	if err != nil {
		if errors.Is(err, zberr.ErrNotFound) {
			return StateUnknown, nil
		}
		return "", err
	}
	if v.JobState == "" {
		return StateUnknown, nil
	}
	return v.JobState, nil
}

// ByInstanceKey accepts jobs of the element instance or process instance k.
func ByInstanceKey(k int64) func(job zeebe.Job) bool {
	return func(job zeebe.Job) bool {
		return job.ElementInstanceKey == k || job.ProcessInstanceKey == k
	}
}
