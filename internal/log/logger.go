// Package log sets up the process-wide structured logger and carries
// the request ID through context so every log line in a request's path
// is correlatable.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID from the context, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// contextHandler decorates every record with the request ID found in
// the log call's context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id := RequestID(ctx); id != "" {
		record.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, record)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name)}
}

// Setup builds a text logger at the given level, installs it as the
// slog default and returns it.
func Setup(level slog.Level) *slog.Logger {
	return SetupWriter(os.Stdout, level)
}

// SetupWriter is Setup with an explicit output, used by tests.
func SetupWriter(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(contextHandler{
		Handler: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	})
	slog.SetDefault(logger)
	return logger
}
