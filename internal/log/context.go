package log

import (
	"context"
	"log/slog"
)

type ContextKey string

const LoggerContextKey ContextKey = "logger"

// IntoContext returns a child context carrying the logger; handlers pick
// it up with FromContext.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext returns the request-scoped logger, falling back to the
// default when none was attached.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}
