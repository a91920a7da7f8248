package form

import "sync"

// FeedbackKind classifies the current status message.
type FeedbackKind string

const (
	FeedbackNone       FeedbackKind = ""
	FeedbackProgress   FeedbackKind = "progress"
	FeedbackValidation FeedbackKind = "validation"
	FeedbackError      FeedbackKind = "error"
)

const (
	MsgSelectQuantity = "select a quantity for at least one item"
	MsgSubmitting     = "Adding items to your cart..."
)

// Feedback holds the single status message shown to the shopper.
// Only the latest message is kept.
type Feedback struct {
	mu   sync.RWMutex
	kind FeedbackKind
	text string
}

func (f *Feedback) Set(kind FeedbackKind, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kind = kind
	f.text = text
}

// ClearError drops a validation or error message. Progress text survives so
// an edit made during a submission does not hide the in-flight status.
func (f *Feedback) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kind == FeedbackValidation || f.kind == FeedbackError {
		f.kind = FeedbackNone
		f.text = ""
	}
}

func (f *Feedback) Message() (string, FeedbackKind) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.text, f.kind
}
