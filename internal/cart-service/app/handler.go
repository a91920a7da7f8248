package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/quick-order/internal/cart-service/authz"
	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
)

// HeaderReplayed marks a response served from an earlier write with the
// same idempotency key.
const HeaderReplayed = "Idempotent-Replayed"

type Handler struct {
	svc *CartService
}

func NewHandler(svc *CartService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.svc.ActiveCarts(r.Context(), authz.Subject(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]CartResponse, len(carts))
	for i, c := range carts {
		out[i] = mapCart(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req LineItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	cart, replayed, err := h.svc.Create(ctx, authz.Subject(ctx), interceptors.IdempotencyKey(ctx), toDomain(req.LineItems))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.InfoContext(ctx, "cart created", "cart_id", cart.ID, "replayed", replayed)

	status := http.StatusCreated
	if replayed {
		w.Header().Set(HeaderReplayed, "true")
		status = http.StatusOK
	}
	writeJSON(w, status, mapCart(cart))
}

func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req LineItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	cartID := chi.URLParam(r, "cartId")
	cart, replayed, err := h.svc.AddItems(ctx, authz.Subject(ctx), cartID, interceptors.IdempotencyKey(ctx), toDomain(req.LineItems))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	slog.InfoContext(ctx, "cart items added", "cart_id", cart.ID, "lines", len(req.LineItems), "replayed", replayed)

	if replayed {
		w.Header().Set(HeaderReplayed, "true")
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusUnprocessableEntity, ve.Detail)
	case errors.Is(err, domain.ErrCartNotFound):
		writeProblem(w, http.StatusNotFound, "cart "+chi.URLParam(r, "cartId")+" does not exist")
	case errors.Is(err, ErrRequestInProgress):
		writeProblem(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "cart request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeProblem(w, http.StatusInternalServerError, "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ProblemResponse{
		Status: status,
		Title:  http.StatusText(status),
		Detail: detail,
	})
}
