package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog"
	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/pkg/metrics"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/quick-order/internal/storefront/core/ports"
)

var ErrNoLineItems = errors.New("no line items to submit")

// Attempt is one admitted submit trigger.
type Attempt struct {
	FormID string
	// ID is sent as the idempotency key. Generated when empty.
	ID    string
	Lines []entity.LineItem
}

// Result describes a successful attempt.
type Result struct {
	AttemptID string
	Kind      entity.DispatchKind
	Ref       *entity.CartReference
	Cart      *entity.Cart
}

// Submitter runs the resolve -> dispatch sequence of a single attempt:
//
//	STARTED -> resolve -> RESOLVED -> create|append -> SUCCEEDED
//	                  \-> FAILED                   \-> FAILED
//
// Exactly one write is issued per attempt and nothing is compensated on
// failure: the cart service owns whatever partial state it kept.
type Submitter struct {
	carts    ports.CartService
	resolver *Resolver
	logRepo  submitlog.Repository // nil-safe
	tracer   trace.Tracer
}

// NewSubmitter builds a submitter. logRepo may be nil, in which case
// transitions are only logged through slog.
func NewSubmitter(carts ports.CartService, logRepo submitlog.Repository) *Submitter {
	return &Submitter{
		carts:    carts,
		resolver: NewResolver(carts),
		logRepo:  logRepo,
		tracer:   otel.Tracer("github.com/jcmexdev/quick-order/internal/coordinator"),
	}
}

// Submit resolves the active cart and issues the create or append write.
func (s *Submitter) Submit(ctx context.Context, a Attempt) (*Result, error) {
	if len(a.Lines) == 0 {
		return nil, ErrNoLineItems
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	ctx, span := s.tracer.Start(ctx, "quickorder.submit", trace.WithAttributes(
		attribute.String("form.id", a.FormID),
		attribute.String("attempt.id", a.ID),
		attribute.Int("line_items", len(a.Lines)),
	))
	defer span.End()

	ctx = interceptors.WithIdempotencyKey(ctx, a.ID)

	s.record(ctx, a, submitlog.StatusStarted, "", encodeLines(a.Lines), "", nil)
	slog.InfoContext(ctx, "submission started", "form_id", a.FormID, "attempt_id", a.ID, "line_items", len(a.Lines))

	resolve := NewResolveStep(s.resolver)
	if err := resolve.Execute(ctx); err != nil {
		return nil, s.fail(ctx, span, a, resolve.Name(), err)
	}
	ref := resolve.Ref()
	s.record(ctx, a, submitlog.StatusResolved, resolve.Name(), "", refID(ref), nil)

	dispatch := dispatchFor(s.carts, ref, a.Lines)
	span.SetAttributes(attribute.String("dispatch.kind", string(dispatch.Kind())))
	if err := dispatch.Execute(ctx); err != nil {
		metrics.CartDispatch.WithLabelValues(string(dispatch.Kind()), "error").Inc()
		return nil, s.fail(ctx, span, a, dispatch.Name(), err)
	}
	metrics.CartDispatch.WithLabelValues(string(dispatch.Kind()), "ok").Inc()

	cart := dispatch.Cart()
	cartID := refID(ref)
	if cart != nil && cart.ID != "" {
		cartID = cart.ID
	}
	s.record(ctx, a, submitlog.StatusSucceeded, dispatch.Name(), "", cartID, nil)
	slog.InfoContext(ctx, "submission succeeded",
		"form_id", a.FormID,
		"attempt_id", a.ID,
		"dispatch", dispatch.Kind(),
		"cart_id", cartID,
	)

	return &Result{AttemptID: a.ID, Kind: dispatch.Kind(), Ref: ref, Cart: cart}, nil
}

func (s *Submitter) fail(ctx context.Context, span trace.Span, a Attempt, step string, err error) error {
	stepErr := &StepError{Step: step, Err: err}
	span.RecordError(stepErr)
	span.SetStatus(codes.Error, stepErr.Error())

	s.record(ctx, a, submitlog.StatusFailed, step, "", "", []string{stepErr.Error()})
	slog.ErrorContext(ctx, "submission failed", "form_id", a.FormID, "attempt_id", a.ID, "step", step, "error", err)
	return stepErr
}

// record is best-effort: a broken audit log must not fail the submission.
func (s *Submitter) record(ctx context.Context, a Attempt, status submitlog.Status, step, payload, cartID string, errs []string) {
	if s.logRepo == nil {
		return
	}
	entry := submitlog.NewEntry(ctx, a.FormID, a.ID, status, step, payload, errs)
	entry.CartID = cartID
	if err := s.logRepo.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to save submission log", "attempt_id", a.ID, "status", status, "error", err)
	}
}

type lineJSON struct {
	ProductID entity.ItemID `json:"productId"`
	Quantity  int           `json:"quantity"`
}

func encodeLines(lines []entity.LineItem) string {
	out := make([]lineJSON, len(lines))
	for i, l := range lines {
		out[i] = lineJSON{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return ""
	}
	return string(b)
}

func refID(ref *entity.CartReference) string {
	if ref == nil {
		return ""
	}
	return ref.CartID
}
