package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

// Instrumentation records metrics, logs and spans around repository operations
type Instrumentation struct {
	database string
	metrics  *metrics.Metrics
	logger   *logging.Logger
	tracer   trace.Tracer
}

// NewInstrumentation creates repository instrumentation; m and logger may be nil
func NewInstrumentation(database string, m *metrics.Metrics, logger *logging.Logger) *Instrumentation {
	return &Instrumentation{
		database: database,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer("mongodb"),
	}
}

// Observe runs op against collection and records its outcome. A missing
// document is not counted as a failure.
func (i *Instrumentation) Observe(ctx context.Context, collection, operation string, op func(ctx context.Context) error) error {
	if i == nil {
		return op(ctx)
	}

	start := time.Now()
	ctx, span := i.tracer.Start(ctx, "mongodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.MongoAttributes(i.database, operation, collection)...),
	)
	defer span.End()

	err := op(ctx)
	duration := time.Since(start)
	success := err == nil || errors.Is(err, mongo.ErrNoDocuments)

	if i.metrics != nil {
		i.metrics.RecordMongoDBOperation(collection, operation, success, duration)
	}
	if i.logger != nil {
		i.logger.DatabaseQuery(ctx, collection, operation, duration, success)
	}

	if !success {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return err
}
