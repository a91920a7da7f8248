package interceptors

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors/constants"
)

// Transport copies request metadata from the request context into outbound
// HTTP headers.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, falling back to http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	if id := RequestID(ctx); id != "" {
		out.Header.Set(constants.HeaderXRequestId, id)
	}
	if key := IdempotencyKey(ctx); key != "" {
		out.Header.Set(constants.HeaderXIdempotencyKey, key)
	}
	if tok := SessionToken(ctx); tok != "" && out.Header.Get(constants.HeaderAuthorization) == "" {
		out.Header.Set(constants.HeaderAuthorization, "Bearer "+tok)
	}
	return t.Base.RoundTrip(out)
}

// ExtractMetadata is the server-side counterpart of Transport: it reads the
// request id, idempotency key and bearer token headers into the context.
func ExtractMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderXRequestId)
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := r.Context()
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		if idempotencyKey != "" {
			ctx = WithIdempotencyKey(ctx, idempotencyKey)
		}
		if tok, ok := BearerToken(r); ok {
			ctx = WithSessionToken(ctx, tok)
		}

		slog.DebugContext(ctx, "inbound request metadata",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get(constants.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return tok, tok != ""
}
