package logging

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// scope is the request metadata stamped onto every line logged with
// WithContext
type scope struct {
	requestID     string
	correlationID string
	traceID       string
	userID        string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeFrom(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

func (s scope) attrs() []any {
	var args []any
	add := func(key, value string) {
		if value != "" {
			args = append(args, slog.String(key, value))
		}
	}
	add("requestId", s.requestID)
	add("correlationId", s.correlationID)
	add("traceId", s.traceID)
	add("userId", s.userID)
	return args
}

// WithContext adds the request scope stored in ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l.derive(scopeFrom(ctx).attrs()...)
}

// ContextWithRequestID stores the request id
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = requestID })
}

// ContextWithCorrelationID stores the correlation id propagated to events
func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return withScope(ctx, func(s *scope) { s.correlationID = correlationID })
}

// ContextWithTraceID stores the active trace id
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return withScope(ctx, func(s *scope) { s.traceID = traceID })
}

// ContextWithUserID stores the authenticated username
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return withScope(ctx, func(s *scope) { s.userID = userID })
}

// RequestIDFromContext returns the stored request id or ""
func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// CorrelationIDFromContext returns the stored correlation id or ""
func CorrelationIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).correlationID
}

// UserIDFromContext returns the authenticated username or ""
func UserIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).userID
}
