package trace

import "context"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the given request ID.
// Calling it again on an already-tagged context overrides the prior value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID carried by ctx, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
