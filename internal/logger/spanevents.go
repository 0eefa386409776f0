package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type spanEventHandler struct {
	attrs  []attribute.KeyValue
	groups []string
	module string
}

// NewSpanEvents returns a handler that records each log record as an event
// on the recording span carried by the record's context. Records logged
// outside a span are dropped.
func NewSpanEvents() slog.Handler {
	return &spanEventHandler{}
}

func (h *spanEventHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *spanEventHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	attrs := make([]attribute.KeyValue, 0, len(h.attrs)+r.NumAttrs()+2)
	attrs = append(attrs, attribute.String("level", r.Level.String()))
	if module, ok := resolveModule(r, h.module, len(h.groups) > 0); ok {
		attrs = append(attrs, attribute.String("code.namespace", module))
	}
	attrs = append(attrs, h.attrs...)
	prefix := groupPrefix(h.groups)
	r.Attrs(func(a slog.Attr) bool {
		attrs = appendAttr(attrs, prefix, a)
		return true
	})

	span.AddEvent(r.Message, trace.WithTimestamp(r.Time), trace.WithAttributes(attrs...))
	return nil
}

func (h *spanEventHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	kvs := append([]attribute.KeyValue(nil), h.attrs...)
	prefix := groupPrefix(h.groups)
	for _, a := range attrs {
		kvs = appendAttr(kvs, prefix, a)
	}
	return &spanEventHandler{attrs: kvs, groups: h.groups, module: boundModule(h.module, len(h.groups) > 0, attrs)}
}

func (h *spanEventHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(append([]string(nil), h.groups...), name)
	return &spanEventHandler{attrs: h.attrs, groups: groups, module: h.module}
}
