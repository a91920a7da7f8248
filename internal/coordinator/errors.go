package coordinator

import (
	"errors"
	"fmt"
)

// MsgGenericFailure is shown when a failure carries no service-provided text.
const MsgGenericFailure = "Something went wrong adding items to your cart. Please try again."

// StepError reports which step of a submission failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// userMessager is implemented by errors that carry text meant for the shopper.
type userMessager interface {
	UserMessage() string
}

// UserMessage picks the text to show for a failed submission.
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return MsgGenericFailure
}
