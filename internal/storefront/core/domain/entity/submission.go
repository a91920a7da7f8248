package entity

// SubmissionState is the lifecycle state of a form's cart submission.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
)

// DispatchKind is the remote write chosen for an attempt.
type DispatchKind string

const (
	DispatchCreate DispatchKind = "create"
	DispatchAppend DispatchKind = "append"
)

// Cart is the part of a cart service response the engine cares about.
type Cart struct {
	ID string
}
