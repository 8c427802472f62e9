package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeySlotID    contextKey = "slot_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithSlotID tags a scoring call with the image slot it was submitted for.
func WithSlotID(ctx context.Context, slotID string) context.Context {
	return context.WithValue(ctx, ContextKeySlotID, slotID)
}

func SlotIDFromContext(ctx context.Context) string {
	if slotID, ok := ctx.Value(ContextKeySlotID).(string); ok {
		return slotID
	}
	return ""
}

// LoggerWith returns logger enriched with whatever ids ctx carries.
func LoggerWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		logger = logger.With("req_id", rid)
	}
	if sid := SlotIDFromContext(ctx); sid != "" {
		logger = logger.With("slot_id", sid)
	}
	return logger
}
