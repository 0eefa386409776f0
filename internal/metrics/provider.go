package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	telerrors "github.com/socialchef/telekit/internal/errors"
	"github.com/socialchef/telekit/internal/otlp"
)

// Exporter kinds accepted by NewMeterProvider.
const (
	ExporterNone       = "none"
	ExporterOTLP       = "otlp"
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
)

// Enabled reports whether kind selects a metric exporter at all.
func Enabled(kind string) bool {
	return kind != "" && kind != ExporterNone
}

// NewMeterProvider builds a MeterProvider exporting through kind. For
// "prometheus" it also returns the /metrics handler, backed by a private
// registry so several providers can coexist in one process.
func NewMeterProvider(ctx context.Context, kind string, ep otlp.Endpoint, headers map[string]string, res *resource.Resource, w io.Writer) (*sdkmetric.MeterProvider, http.Handler, error) {
	switch kind {
	case ExporterPrometheus:
		reg := prometheus.NewRegistry()
		exp, err := promexporter.New(promexporter.WithRegisterer(reg))
		if err != nil {
			return nil, nil, telerrors.NewExporterError("failed to create prometheus exporter", "METRIC_EXPORTER", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exp),
		)
		return mp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil

	case ExporterOTLP:
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithURLPath(ep.Path(otlp.MetricsPath)),
		}
		if ep.Host != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(ep.Host))
		}
		if len(headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(headers))
		}
		if ep.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, nil, telerrors.NewExporterError("failed to create OTLP metric exporter", "METRIC_EXPORTER", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		)
		return mp, nil, nil

	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, nil, telerrors.NewExporterError("failed to create stdout metric exporter", "METRIC_EXPORTER", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		)
		return mp, nil, nil

	default:
		return nil, nil, telerrors.NewConfigError(fmt.Sprintf("metric exporter %q", kind), "METRIC_EXPORTER_KIND", telerrors.ErrUnknownExporter)
	}
}

// StartRuntime registers Go runtime metrics (GC, goroutines, memory) on mp.
func StartRuntime(mp *sdkmetric.MeterProvider) error {
	if err := otelruntime.Start(otelruntime.WithMeterProvider(mp)); err != nil {
		return telerrors.NewExporterError("failed to start runtime metrics", "RUNTIME_METRICS", err)
	}
	return nil
}
