package logging

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// BusinessEvent describes a state change of a warehouse entity
type BusinessEvent struct {
	EventType  string
	EntityType string
	EntityID   string
	Action     string
	UserID     string
	RelatedIDs map[string]string
	Data       map[string]any
}

// LogBusinessEvent writes one audit line per domain transition
func (l *Logger) LogBusinessEvent(ctx context.Context, event BusinessEvent) {
	args := []any{
		slog.String("eventType", event.EventType),
		slog.String("entityType", event.EntityType),
		slog.String("entityId", event.EntityID),
		slog.String("action", event.Action),
	}
	if event.UserID != "" {
		args = append(args, slog.String("userId", event.UserID))
	}
	for k, v := range event.RelatedIDs {
		args = append(args, slog.String(k, v))
	}
	for k, v := range event.Data {
		args = append(args, slog.Any(k, v))
	}
	l.WithContext(ctx).InfoContext(ctx, "Business event", args...)
}

// HTTPRequest writes the access log line of one request. 4xx responses are
// logged at warn and 5xx at error.
func (l *Logger) HTTPRequest(ctx context.Context, method, path string, status int, duration time.Duration, clientIP, userAgent string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	l.WithContext(ctx).Log(ctx, level, "HTTP request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("durationMs", duration.Milliseconds()),
		slog.String("clientIP", clientIP),
		slog.String("userAgent", userAgent),
	)
}

// DatabaseQuery logs a MongoDB operation. Successful calls are debug lines.
func (l *Logger) DatabaseQuery(ctx context.Context, collection, operation string, duration time.Duration, success bool) {
	l.WithContext(ctx).Log(ctx, outcomeLevel(success), "Database query",
		slog.String("collection", collection),
		slog.String("operation", operation),
		slog.Int64("durationMs", duration.Milliseconds()),
		slog.Bool("success", success),
	)
}

// KafkaPublish logs one produced event
func (l *Logger) KafkaPublish(ctx context.Context, topic, eventType string, success bool, duration time.Duration) {
	l.WithContext(ctx).Log(ctx, outcomeLevel(success), "Kafka publish",
		slog.String("topic", topic),
		slog.String("eventType", eventType),
		slog.Bool("success", success),
		slog.Int64("durationMs", duration.Milliseconds()),
	)
}

// Panic logs a recovered panic with the goroutine stack
func (l *Logger) Panic(ctx context.Context, recovered any) {
	l.WithContext(ctx).ErrorContext(ctx, "Panic recovered",
		slog.Any("panic", recovered),
		slog.String("stack", string(debug.Stack())),
	)
}

func outcomeLevel(success bool) slog.Level {
	if success {
		return slog.LevelDebug
	}
	return slog.LevelError
}
