package interceptors

import (
	"context"

	"github.com/jcmexdev/quick-order/internal/pkg/interceptors/constants"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

// WithSessionToken stores the shopper's bearer token. It is forwarded on
// every outbound cart service call.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, constants.ContextKeySessionToken, token)
}

func RequestID(ctx context.Context) string {
	return value(ctx, constants.ContextKeyRequestID)
}

func IdempotencyKey(ctx context.Context) string {
	return value(ctx, constants.ContextKeyIdempotencyKey)
}

func SessionToken(ctx context.Context) string {
	return value(ctx, constants.ContextKeySessionToken)
}

func value(ctx context.Context, key any) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
