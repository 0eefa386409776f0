package telemetry

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"

	telerrors "github.com/socialchef/telekit/internal/errors"
	"github.com/socialchef/telekit/internal/logger"
	"github.com/socialchef/telekit/internal/utils"
)

// Handle owns everything New built. Shutdown releases it exactly once.
type Handle struct {
	logger         *slog.Logger
	tp             *sdktrace.TracerProvider
	lp             *sdklog.LoggerProvider
	mp             *sdkmetric.MeterProvider
	metricsHandler http.Handler
	file           *logger.RotatingFile

	shutdownTimeout time.Duration

	once sync.Once
	err  error
}

// Logger is the composed logger. InitConfig also installs it as slog.Default.
func (h *Handle) Logger() *slog.Logger {
	return h.logger
}

// TracerProvider returns the exporting provider, or a no-op one when the
// telemetry sink is disabled.
func (h *Handle) TracerProvider() trace.TracerProvider {
	if h.tp == nil {
		return tracenoop.NewTracerProvider()
	}
	return h.tp
}

// Tracer is shorthand for TracerProvider().Tracer(name). Spans are only
// exported when name starts with the module prefix or a configured
// trace scope.
func (h *Handle) Tracer(name string) trace.Tracer {
	return h.TracerProvider().Tracer(name)
}

// MeterProvider returns the configured provider, or a no-op one when
// metrics are disabled.
func (h *Handle) MeterProvider() metric.MeterProvider {
	if h.mp == nil {
		return metricnoop.NewMeterProvider()
	}
	return h.mp
}

// MetricsHandler serves /metrics when the prometheus exporter is selected,
// and is nil otherwise.
func (h *Handle) MetricsHandler() http.Handler {
	return h.metricsHandler
}

// LogFile is the rolling file currently written, or "" if the file sink is
// disabled or nothing was logged yet.
func (h *Handle) LogFile() string {
	if h.file == nil {
		return ""
	}
	return h.file.CurrentFileName()
}

// Shutdown flushes and stops the trace exporter if the telemetry sink was
// enabled, then the log and metric exporters and the log file. Only the
// first call does any work; later calls return its result.
func (h *Handle) Shutdown(ctx context.Context) error {
	h.once.Do(func() {
		h.err = h.shutdown(ctx)
	})
	return h.err
}

// Close is Shutdown bounded by the configured shutdown timeout.
func (h *Handle) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	return h.Shutdown(ctx)
}

func (h *Handle) shutdown(ctx context.Context) error {
	var err error

	if h.tp != nil {
		if ferr := utils.Do(ctx, h.tp.ForceFlush, utils.FlushRetryConfig()); ferr != nil {
			err = multierr.Append(err, telerrors.NewShutdownError("failed to flush spans", "TRACE_FLUSH", ferr))
		}
		if serr := h.tp.Shutdown(ctx); serr != nil {
			err = multierr.Append(err, telerrors.NewShutdownError("failed to shut down tracer provider", "TRACE_SHUTDOWN", serr))
		}
	}
	if h.lp != nil {
		if serr := h.lp.Shutdown(ctx); serr != nil {
			err = multierr.Append(err, telerrors.NewShutdownError("failed to shut down logger provider", "LOG_SHUTDOWN", serr))
		}
	}
	if h.mp != nil {
		if serr := h.mp.Shutdown(ctx); serr != nil {
			err = multierr.Append(err, telerrors.NewShutdownError("failed to shut down meter provider", "METRIC_SHUTDOWN", serr))
		}
	}
	if h.file != nil {
		if cerr := h.file.Close(); cerr != nil {
			err = multierr.Append(err, telerrors.NewShutdownError("failed to close log file", "LOG_FILE_CLOSE", cerr))
		}
	}
	return err
}

// abort releases whatever New had built before failing and returns err.
func (h *Handle) abort(err error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if h.mp != nil {
		_ = h.mp.Shutdown(ctx)
	}
	if h.tp != nil {
		_ = h.tp.Shutdown(ctx)
	}
	if h.lp != nil {
		_ = h.lp.Shutdown(ctx)
	}
	if h.file != nil {
		_ = h.file.Close()
	}
	return err
}
