package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/quick-order/internal/cart-service/authz"
	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
	"github.com/jcmexdev/quick-order/internal/pkg/metrics"
)

func NewRouter(handler *Handler, auth *authz.Authz) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(interceptors.ExtractMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/storefront/carts", func(r chi.Router) {
		r.Use(auth.Require)
		r.Get("/", handler.ListCarts)
		r.Post("/", handler.CreateCart)
		r.Post("/{cartId}/items", handler.AddItems)
	})

	return otelhttp.NewHandler(r, "cart-service")
}
