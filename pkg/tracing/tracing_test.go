package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupDisabledKeepsNoopProvider(t *testing.T) {
	p, err := Setup(context.Background(), DefaultConfig("warehouse-ops"))

	require.NoError(t, err)
	assert.False(t, p.Exporting())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestInSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	err := InSpan(context.Background(), "jobs", "outbox-cleanup", func(context.Context) error {
		return errors.New("mongodb unreachable")
	}, attribute.String("job.name", "outbox-cleanup"))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "outbox-cleanup", spans[0].Name())
	assert.Len(t, spans[0].Events(), 1)
}

func TestTraceHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	ctx, span := sdktrace.NewTracerProvider().Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	parent, _ := TraceHeaders(ctx)
	assert.Contains(t, parent, span.SpanContext().TraceID().String())

	parent, _ = TraceHeaders(context.Background())
	assert.Empty(t, parent)
}

func TestSamplerHonoursParent(t *testing.T) {
	assert.Contains(t, sampler(0.25).Description(), "ParentBased")
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
}
