package services

import "context"

type contextKey string

const (
	sessionKeyKey contextKey = "session_key"
	requestIDKey  contextKey = "request_id"
)

// WithSessionKey annotates context with the session key (the request URL or
// input path the registry tracks the external process under).
func WithSessionKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKeyKey, key)
}

// SessionKeyFromContext extracts the session key if present.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(sessionKeyKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(requestIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
