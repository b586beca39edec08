package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is an unexported type to avoid context key collisions.
type loggerContextKey struct{}

// WithLogger returns a copy of ctx carrying the given logger. Handlers put
// a request-scoped logger into the context so lower layers log with the
// request's attributes attached. Panics if log is nil.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		panic("logger cannot be nil")
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext retrieves the logger carried by ctx, or the process default
// logger if none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger carried by ctx, falling back to
// the provided component logger rather than the process default. Components
// holding a tagged logger use this so their tag survives when no
// request-scoped logger is available.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
