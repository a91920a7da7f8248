package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors"
)

// AttachRequestMetadata puts the chi request id and the shopper's bearer
// token into the context so outbound cart service calls carry them.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if requestID := middleware.GetReqID(ctx); requestID != "" {
			ctx = interceptors.WithRequestID(ctx, requestID)
		}
		if tok, ok := interceptors.BearerToken(r); ok {
			ctx = interceptors.WithSessionToken(ctx, tok)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
