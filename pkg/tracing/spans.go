package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MongoAttributes describes a MongoDB call in semantic convention terms
func MongoAttributes(database, operation, collection string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.system", "mongodb"),
		attribute.String("db.name", database),
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
	}
}

// KafkaAttributes describes a Kafka operation on topic
func KafkaAttributes(topic, operation string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination.name", topic),
		attribute.String("messaging.operation", operation),
	}
}

// InSpan runs fn in a span and records its error
func InSpan(ctx context.Context, tracer, name string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := otel.Tracer(tracer).Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// TraceHeaders returns the W3C traceparent and tracestate of ctx, empty
// when ctx carries no sampled span
func TraceHeaders(ctx context.Context) (traceparent, tracestate string) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.Get("traceparent"), carrier.Get("tracestate")
}
