package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog"
	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/pkg/metrics"
	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

// Handler exposes quick-order forms over HTTP. Every route needs the
// shopper's bearer token; a form is only visible to the session that
// opened it.
type Handler struct {
	forms   *Registry
	catalog []entity.Item
	logRepo submitlog.Repository // nil-safe: audit route returns an empty list
}

// NewHandler builds the handler. logRepo may be nil.
func NewHandler(forms *Registry, catalog []entity.Item, logRepo submitlog.Repository) *Handler {
	return &Handler{forms: forms, catalog: catalog, logRepo: logRepo}
}

// OpenForm creates a form holding the catalog with every quantity at zero.
func (h *Handler) OpenForm(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	s, err := h.forms.open(owner, h.catalog)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to open form", "error", err)
		writeError(w, http.StatusInternalServerError, "form_open_failed", err.Error())
		return
	}
	slog.InfoContext(r.Context(), "form opened", "form_id", s.form.ID(), "items", len(h.catalog))
	writeJSON(w, http.StatusCreated, mapSession(s))
}

func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, mapSession(s))
}

// UpdateQuantity applies a quantity edit. Malformed quantities and unknown
// items leave the form untouched and still answer 200 with applied=false.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_item_id", "item id must be an integer")
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	applied := s.form.SetQuantity(entity.ItemID(itemID), quantityText(req.Quantity))
	if !applied {
		slog.DebugContext(r.Context(), "quantity edit ignored",
			"form_id", s.form.ID(),
			"item_id", itemID,
			"raw", string(req.Quantity),
		)
	}
	writeJSON(w, http.StatusOK, UpdateQuantityResponse{Applied: applied, Form: mapSession(s)})
}

// Submit runs one submit trigger to completion and reports its outcome.
// Failures are part of the form state, so the status is 200 either way.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	outcome := s.form.Submit(r.Context())
	metrics.Submissions.WithLabelValues(string(outcome)).Inc()
	slog.InfoContext(r.Context(), "submit handled", "form_id", s.form.ID(), "outcome", outcome)

	writeJSON(w, http.StatusOK, SubmitResponse{Outcome: string(outcome), Form: mapSession(s)})
}

func (h *Handler) CloseForm(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := h.forms.remove(chi.URLParam(r, "id"), owner); err != nil {
		writeError(w, http.StatusNotFound, "form_not_found", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSubmissions returns the audit trail of a form's submission attempts.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	out := []SubmissionLogResponse{}
	if h.logRepo != nil {
		entries, err := h.logRepo.List(r.Context(), s.form.ID())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "submission_log_error", err.Error())
			return
		}
		for _, e := range entries {
			out = append(out, SubmissionLogResponse{
				AttemptID: e.AttemptID,
				Status:    string(e.Status),
				Step:      e.Step,
				CartID:    e.CartID,
				Payload:   e.Payload,
				Errors:    e.ErrorMessages,
				TraceID:   e.TraceID,
				UpdatedAt: e.UpdatedAt,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok := interceptors.SessionToken(r.Context())
	if tok == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return "", false
	}
	return tok, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	owner, ok := h.owner(w, r)
	if !ok {
		return nil, false
	}
	s, err := h.forms.get(chi.URLParam(r, "id"), owner)
	if err != nil {
		writeError(w, http.StatusNotFound, "form_not_found", err.Error())
		return nil, false
	}
	return s, true
}

// quantityText turns a JSON string or number into the text the form parses.
// Anything else yields "" which the form rejects.
func quantityText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return strings.TrimSpace(n.String())
	}
	return ""
}

func mapSession(s *session) FormResponse {
	snap := s.form.Snapshot()
	items := make([]ItemResponse, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = ItemResponse{
			ID:       int(it.ID),
			Name:     it.DisplayName,
			Image:    it.ImageReference,
			Price:    it.FormattedPrice,
			Quantity: it.Quantity,
		}
	}
	return FormResponse{
		ID:            snap.ID,
		Items:         items,
		Message:       snap.Message,
		MessageKind:   string(snap.MessageKind),
		State:         string(snap.State),
		LastFailure:   snap.LastFailure,
		SubmitEnabled: snap.SubmitEnabled,
		Redirect:      s.nav.Target(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
