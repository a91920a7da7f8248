package httpx

import (
	"encoding/json"
	"time"
)

// UpdateQuantityRequest accepts the quantity as a JSON string ("3") or
// number (3); both are parsed as text by the form.
type UpdateQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

type ItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type FormResponse struct {
	ID            string         `json:"id"`
	Items         []ItemResponse `json:"items"`
	Message       string         `json:"message,omitempty"`
	MessageKind   string         `json:"message_kind,omitempty"`
	State         string         `json:"state"`
	LastFailure   string         `json:"last_failure,omitempty"`
	SubmitEnabled bool           `json:"submit_enabled"`
	Redirect      string         `json:"redirect,omitempty"`
}

type UpdateQuantityResponse struct {
	Applied bool         `json:"applied"`
	Form    FormResponse `json:"form"`
}

type SubmitResponse struct {
	Outcome string       `json:"outcome"`
	Form    FormResponse `json:"form"`
}

type SubmissionLogResponse struct {
	AttemptID string    `json:"attempt_id"`
	Status    string    `json:"status"`
	Step      string    `json:"step,omitempty"`
	CartID    string    `json:"cart_id,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	Errors    string    `json:"errors,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
