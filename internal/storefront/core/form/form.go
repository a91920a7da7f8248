package form

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/quick-order/internal/coordinator"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

// DefaultCartPage is where a successful submission asks to navigate.
const DefaultCartPage = "/cart.php"

// Outcome is what a submit trigger ended in.
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// CartSubmitter performs the remote part of an admitted attempt.
type CartSubmitter interface {
	Submit(ctx context.Context, attempt coordinator.Attempt) (*coordinator.Result, error)
}

// Form is the state owned by one shopper's bulk order form.
type Form struct {
	id        string
	store     *Store
	guard     *Guard
	feedback  *Feedback
	submitter CartSubmitter
	navigator ports.Navigator
	cartPage  string
}

type Option func(*Form)

// WithCartPage overrides the navigation target used after success.
func WithCartPage(path string) Option { return func(f *Form) { f.cartPage = path } }

// New loads items into a fresh form. It fails when item ids repeat.
func New(id string, items []entity.Item, submitter CartSubmitter, navigator ports.Navigator, opts ...Option) (*Form, error) {
	feedback := &Feedback{}
	store, err := NewStore(items, feedback)
	if err != nil {
		return nil, err
	}
	f := &Form{
		id:        id,
		store:     store,
		guard:     NewGuard(),
		feedback:  feedback,
		submitter: submitter,
		navigator: navigator,
		cartPage:  DefaultCartPage,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Form) ID() string { return f.id }

// SetQuantity records a text edit for an item.
func (f *Form) SetQuantity(id entity.ItemID, raw string) bool {
	return f.store.SetQuantity(id, raw)
}

// SetQuantityValue records an absolute quantity for an item.
func (f *Form) SetQuantityValue(id entity.ItemID, n int) bool {
	return f.store.SetQuantityValue(id, n)
}

// Submit handles one submit trigger to completion. Failures end up in the
// feedback channel; nothing is returned as an error.
//
// ctx is detached from cancellation: once admitted, an attempt runs until
// the cart service answers or the transport gives up.
func (f *Form) Submit(ctx context.Context) Outcome {
	if !f.guard.Acquire() {
		slog.InfoContext(ctx, "submit ignored, form not armed", "form_id", f.id)
		return OutcomeRejected
	}

	lines := BuildLineItems(f.store.Items())
	if len(lines) == 0 {
		f.guard.Release()
		f.feedback.Set(FeedbackValidation, MsgSelectQuantity)
		return OutcomeInvalid
	}
	f.feedback.Set(FeedbackProgress, MsgSubmitting)

	ctx = context.WithoutCancel(ctx)
	if _, err := f.submitter.Submit(ctx, coordinator.Attempt{FormID: f.id, Lines: lines}); err != nil {
		msg := coordinator.UserMessage(err)
		f.feedback.Set(FeedbackError, msg)
		f.guard.Fail(msg)
		return OutcomeFailed
	}

	f.guard.Succeed()
	if f.navigator != nil {
		f.navigator.Navigate(ctx, f.cartPage)
	}
	return OutcomeSucceeded
}

// Snapshot is the presentation view of a form.
type Snapshot struct {
	ID            string
	Items         []entity.Item
	Message       string
	MessageKind   FeedbackKind
	State         entity.SubmissionState
	LastFailure   string
	SubmitEnabled bool
}

func (f *Form) Snapshot() Snapshot {
	msg, kind := f.feedback.Message()
	state, lastFailure := f.guard.State()
	return Snapshot{
		ID:            f.id,
		Items:         f.store.Items(),
		Message:       msg,
		MessageKind:   kind,
		State:         state,
		LastFailure:   lastFailure,
		SubmitEnabled: state == entity.StateIdle,
	}
}
