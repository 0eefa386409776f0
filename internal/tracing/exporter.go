package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	telerrors "github.com/socialchef/telekit/internal/errors"
	"github.com/socialchef/telekit/internal/otlp"
)

// Exporter kinds accepted by NewExporter.
const (
	ExporterOTLP   = "otlp"
	ExporterJaeger = "jaeger"
	ExporterStdout = "stdout"
)

// NewExporter builds the span exporter for kind. "jaeger" is an alias for
// "otlp": Jaeger ingests OTLP/HTTP natively on port 4318. The stdout
// exporter writes to w.
func NewExporter(ctx context.Context, kind string, ep otlp.Endpoint, headers map[string]string, w io.Writer) (sdktrace.SpanExporter, error) {
	switch kind {
	case "", ExporterOTLP, ExporterJaeger:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithURLPath(ep.Path(otlp.TracesPath)),
		}
		if ep.Host != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(ep.Host))
		}
		if len(headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(headers))
		}
		if ep.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}

		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, telerrors.NewExporterError("failed to create OTLP trace exporter", "TRACE_EXPORTER", err)
		}
		return exp, nil

	case ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, telerrors.NewExporterError("failed to create stdout trace exporter", "TRACE_EXPORTER", err)
		}
		return exp, nil

	default:
		return nil, telerrors.NewConfigError(fmt.Sprintf("trace exporter %q", kind), "TRACE_EXPORTER_KIND", telerrors.ErrUnknownExporter)
	}
}

// NewLogExporter builds the OTLP/HTTP log record exporter for ep.
func NewLogExporter(ctx context.Context, ep otlp.Endpoint, headers map[string]string) (sdklog.Exporter, error) {
	opts := []otlploghttp.Option{
		otlploghttp.WithURLPath(ep.Path(otlp.LogsPath)),
	}
	if ep.Host != "" {
		opts = append(opts, otlploghttp.WithEndpoint(ep.Host))
	}
	if len(headers) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(headers))
	}
	if ep.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}

	exp, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, telerrors.NewExporterError("failed to create OTLP log exporter", "LOG_EXPORTER", err)
	}
	return exp, nil
}
