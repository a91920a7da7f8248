package cartclient

import "fmt"

// ServiceError is a non-2xx answer from the cart service.
type ServiceError struct {
	Status int
	Title  string
	Detail string
}

func (e *ServiceError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		return fmt.Sprintf("cart service returned status %d", e.Status)
	}
	return fmt.Sprintf("cart service returned status %d: %s", e.Status, msg)
}

// UserMessage is the text shown to the shopper: detail, then title.
func (e *ServiceError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// TransportError means the cart service could not be reached or answered
// with something unreadable. Timeouts end up here too.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cart service %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
