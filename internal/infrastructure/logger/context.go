package logger

import "context"

type contextKey struct{}

var requestIDKey contextKey

// WithRequestID stores the request ID in the context so layers below
// the HTTP handlers (GORM tracing in particular) can correlate their
// lines with the access log.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID carried by the context, or ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
