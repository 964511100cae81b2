package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerCtxKey    = ctxKey{"logger"}
	requestIDCtxKey = ctxKey{"request_id"}
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerCtxKey).(*zerolog.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// Ctx is FromContext.
func Ctx(ctx context.Context) *zerolog.Logger { return FromContext(ctx) }

// WithRequestID records the request id and adds it to the context logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return WithField(context.WithValue(ctx, requestIDCtxKey, requestID), "request_id", requestID)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// WithField derives a context whose logger carries key=value.
func WithField(ctx context.Context, key string, value any) context.Context {
	return WithFields(ctx, map[string]any{key: value})
}

// WithFields derives a context whose logger carries every entry of fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logCtx := FromContext(ctx).With()
	for key, value := range fields {
		logCtx = addField(logCtx, key, value)
	}
	logger := logCtx.Logger()
	return WithLogger(ctx, &logger)
}

// Conversion tags.

func WithReading(ctx context.Context, reading string) context.Context {
	return WithField(ctx, "reading", reading)
}

func WithMode(ctx context.Context, mode string) context.Context {
	return WithField(ctx, "mode", mode)
}

func WithSegment(ctx context.Context, index int) context.Context {
	return WithField(ctx, "segment", index)
}

func WithEngine(ctx context.Context, engine string) context.Context {
	return WithField(ctx, "engine", engine)
}

func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}

// WithError attaches err to the context logger. A nil err leaves ctx unchanged.
func WithError(ctx context.Context, err error) context.Context {
	if err == nil {
		return ctx
	}
	return WithField(ctx, "error", err)
}
