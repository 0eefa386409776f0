package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
)

// LevelTrace is below slog.LevelDebug and is the most verbose level.
const LevelTrace = slog.Level(-8)

// New creates a console-only slog.Logger based on the environment.
// For "production", it returns a JSON handler.
// For other environments, it returns a text handler with debug level.
func New(env string) *slog.Logger {
	if env == "production" {
		return slog.New(NewConsole(os.Stdout, true, slog.LevelInfo))
	}
	return slog.New(NewConsole(os.Stdout, false, slog.LevelDebug))
}

// NewConsole returns the handler used by the console layer: compact
// key=value text, or JSON when json is set.
func NewConsole(w io.Writer, json bool, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewJSONFile returns the handler used by the file layer. Records carry
// their source location and, inside a span, the trace and span IDs.
func NewJSONFile(w io.Writer, level slog.Leveler) slog.Handler {
	return traceContextHandler{slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: replaceLevel,
	})}
}

type traceContextHandler struct {
	slog.Handler
}

func (h traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if a := WithTraceContext(ctx); a.Key != "" {
		r = r.Clone()
		r.AddAttrs(a)
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceContextHandler) WithGroup(name string) slog.Handler {
	return traceContextHandler{h.Handler.WithGroup(name)}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok && l <= LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// ParseLevel maps a level name (trace, debug, info, warn, error) to a
// slog.Level. Unknown names fall back to def.
func ParseLevel(name string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// WithTraceContext returns a slog.Attr containing trace_id and span_id if available in the context.
func WithTraceContext(ctx context.Context) slog.Attr {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return slog.Attr{}
	}
	sc := span.SpanContext()
	return slog.Group("trace",
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)
}

type otelHandler struct {
	logger log.Logger
	attrs  []log.KeyValue
	groups []string
}

// NewOTelBridge returns a handler that emits every record to an
// OpenTelemetry logger obtained from lp under the given scope name.
func NewOTelBridge(lp log.LoggerProvider, scope string) slog.Handler {
	return &otelHandler{logger: lp.Logger(scope)}
}

func (h *otelHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	var otelRecord log.Record
	otelRecord.SetTimestamp(r.Time)
	otelRecord.SetBody(log.StringValue(r.Message))
	otelRecord.SetSeverity(toSeverity(r.Level))
	otelRecord.SetSeverityText(r.Level.String())
	otelRecord.AddAttributes(h.attrs...)

	prefix := groupPrefix(h.groups)
	r.Attrs(func(a slog.Attr) bool {
		otelRecord.AddAttributes(log.KeyValue{
			Key:   prefixed(prefix, a.Key),
			Value: toOTelValue(a.Value),
		})
		return true
	})

	h.logger.Emit(ctx, otelRecord)
	return nil
}

func (h *otelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	kvs := append([]log.KeyValue(nil), h.attrs...)
	prefix := groupPrefix(h.groups)
	for _, a := range attrs {
		kvs = append(kvs, log.KeyValue{Key: prefixed(prefix, a.Key), Value: toOTelValue(a.Value)})
	}
	return &otelHandler{logger: h.logger, attrs: kvs, groups: h.groups}
}

func (h *otelHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(append([]string(nil), h.groups...), name)
	return &otelHandler{logger: h.logger, attrs: h.attrs, groups: groups}
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
