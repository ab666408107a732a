package ocr

import "context"

// JobState models the lifecycle of an asynchronous extraction job.
type JobState string

const (
	JobStatePending   JobState = "pending"
	JobStateRunning   JobState = "running"
	JobStateSucceeded JobState = "succeeded"
	JobStateFailed    JobState = "failed"
	JobStateCanceled  JobState = "canceled"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	switch s {
	case JobStateSucceeded, JobStateFailed, JobStateCanceled:
		return true
	}
	return false
}

// JobStatus reports incremental progress for a running job.
type JobStatus struct {
	State JobState
	// Progress is the fraction of pages completed, in [0, 1].
	Progress float64
	Message  string
}

// Job represents an asynchronous batch extraction that can be polled,
// awaited, or canceled.
type Job interface {
	ID() string
	Status() JobStatus
	// Result blocks until the job reaches a terminal state or the context is
	// done, then returns the final result or failure.
	Result(ctx context.Context) (Result, error)
	Cancel()
}
