package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/quick-order/internal/pkg/metrics"
	"github.com/jcmexdev/quick-order/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/forms", func(r chi.Router) {
		r.Post("/", handler.OpenForm)
		r.Get("/{id}", handler.GetForm)
		r.Delete("/{id}", handler.CloseForm)
		r.Put("/{id}/items/{itemId}", handler.UpdateQuantity)
		r.Post("/{id}/submit", handler.Submit)
		r.Get("/{id}/submissions", handler.ListSubmissions)
	})

	return otelhttp.NewHandler(r, "storefront")
}
