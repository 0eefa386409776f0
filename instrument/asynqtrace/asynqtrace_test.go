package asynqtrace

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestMiddleware(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	var inner trace.SpanContext
	h := Middleware(tp)(asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		inner = trace.SpanContextFromContext(ctx)
		return nil
	}))

	require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask("email:send", []byte(`{}`))))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "job:email:send", span.Name())
	assert.Equal(t, trace.SpanKindConsumer, span.SpanKind())
	assert.Equal(t, ScopeName, span.InstrumentationScope().Name)
	assert.Contains(t, span.Attributes(), attribute.String("job.type", "email:send"))
	assert.Equal(t, span.SpanContext().SpanID(), inner.SpanID())
}

func TestMiddleware_Error(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	boom := errors.New("boom")

	h := Middleware(tp)(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return boom
	}))

	err := h.ProcessTask(context.Background(), asynq.NewTask("report:build", nil))
	assert.ErrorIs(t, err, boom)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
