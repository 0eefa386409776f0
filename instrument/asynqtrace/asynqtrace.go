// Package asynqtrace wraps asynq task handlers in consumer spans.
package asynqtrace

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of job spans.
const ScopeName = "github.com/socialchef/telekit/instrument/asynqtrace"

// Middleware returns asynq middleware that runs each task in a span from tp.
// A nil tp uses the global tracer provider at the time the task runs.
func Middleware(tp trace.TracerProvider) asynq.MiddlewareFunc {
	return func(h asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			provider := tp
			if provider == nil {
				provider = otel.GetTracerProvider()
			}
			tracer := provider.Tracer(ScopeName)

			taskID, _ := asynq.GetTaskID(ctx)
			queueName, _ := asynq.GetQueueName(ctx)
			retryCount, _ := asynq.GetRetryCount(ctx)

			ctx, span := tracer.Start(ctx, fmt.Sprintf("job:%s", t.Type()), trace.WithSpanKind(trace.SpanKindConsumer))
			defer span.End()

			span.SetAttributes(
				attribute.String("job.id", taskID),
				attribute.String("job.type", t.Type()),
				attribute.String("job.queue", queueName),
				attribute.Int("job.retry_count", retryCount),
			)

			err := h.ProcessTask(ctx, t)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		})
	}
}
