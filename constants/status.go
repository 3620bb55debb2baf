package constants

// JobStatus is the canonical status for rows in intake_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued   JobStatus = "QUEUED"    // accepted by the async queue
	JobStatusRunning  JobStatus = "RUNNING"   // in progress
	JobStatusNoSignal JobStatus = "NO_SIGNAL" // text has no case-file signal
	JobStatusInvalid  JobStatus = "INVALID"   // signal found, record failed validation
	JobStatusValid    JobStatus = "VALID"     // record valid, case file upserted
	JobStatusFailed   JobStatus = "FAILED"    // terminal infrastructure failure
)

var allStatuses = []JobStatus{
	JobStatusQueued,
	JobStatusRunning,
	JobStatusNoSignal,
	JobStatusInvalid,
	JobStatusValid,
	JobStatusFailed,
}

// StatusStrings lists every status, used for enum validation.
func StatusStrings() []string {
	out := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		out[i] = string(s)
	}
	return out
}

// IsTerminal reports whether no further stage runs after s.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusNoSignal, JobStatusInvalid, JobStatusValid, JobStatusFailed:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	for _, v := range allStatuses {
		if v == s {
			return true
		}
	}
	return false
}
