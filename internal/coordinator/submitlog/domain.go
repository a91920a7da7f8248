// Package submitlog records every state transition of a cart submission.
//
// The log is append-only. It answers "what happened to this form's
// submissions" and links each row to the distributed trace through the
// trace_id and span_id fields.
package submitlog

import "time"

// Status is the transition an entry records.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusResolved  Status = "RESOLVED"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Entry is a single row of the submission log.
type Entry struct {
	// FormID is the form the submission belongs to.
	FormID string

	// AttemptID identifies one submit trigger. It doubles as the idempotency
	// key sent to the cart service.
	AttemptID string

	Status Status

	// Step is the step that just ran or failed ("resolve", "create", "append").
	Step string

	// Payload is the JSON line item list. Only written on STARTED.
	Payload string

	// CartID is known once the attempt resolved or dispatched.
	CartID string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
