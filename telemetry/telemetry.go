package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/socialchef/telekit/internal/logger"
	"github.com/socialchef/telekit/internal/metrics"
	"github.com/socialchef/telekit/internal/otlp"
	"github.com/socialchef/telekit/internal/tracing"
)

var (
	initMu      sync.Mutex
	initialized bool
)

// Init builds the pipeline for projectName with the given sinks and
// installs it process-wide. See InitConfig.
func Init(ctx context.Context, projectName string, sinks Sinks, opts ...Option) (*Handle, error) {
	cfg := Config{ProjectName: projectName, Sinks: sinks}
	for _, opt := range opts {
		opt(&cfg)
	}
	return InitConfig(ctx, cfg)
}

// InitConfig builds the pipeline with New and installs it as the process
// default: slog.Default, the global tracer, logger and meter providers, and
// a W3C trace-context plus baggage propagator. It succeeds at most once per
// process; later calls return ErrAlreadyInitialized.
func InitConfig(ctx context.Context, cfg Config) (*Handle, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return nil, ErrAlreadyInitialized
	}

	h, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(h.logger)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if h.tp != nil {
		otel.SetTracerProvider(h.tp)
	}
	if h.lp != nil {
		global.SetLoggerProvider(h.lp)
	}
	if h.mp != nil {
		otel.SetMeterProvider(h.mp)
	}

	initialized = true
	return h, nil
}

// New builds the pipeline described by cfg without touching any process
// globals. Layers left disabled in cfg are not constructed at all.
func New(ctx context.Context, cfg Config) (*Handle, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	h := &Handle{shutdownTimeout: cfg.ShutdownTimeout}
	ep := otlp.ParseEndpoint(cfg.CollectorEndpoint)

	var res *resource.Resource
	if cfg.Sinks.Telemetry || cfg.Logs || metrics.Enabled(cfg.Metrics) {
		var err error
		res, err = tracing.NewResource(ctx, cfg.ProjectName, cfg.ServiceVersion, cfg.Environment)
		if err != nil {
			return nil, err
		}
	}

	var pm *metrics.PipelineMetrics
	if metrics.Enabled(cfg.Metrics) {
		mp, handler, err := metrics.NewMeterProvider(ctx, cfg.Metrics, ep, cfg.Headers, res, cfg.Output)
		if err != nil {
			return nil, err
		}
		h.mp, h.metricsHandler = mp, handler

		if err := metrics.StartRuntime(mp); err != nil {
			return nil, h.abort(err)
		}
		if pm, err = metrics.NewPipelineMetrics(mp); err != nil {
			return nil, h.abort(err)
		}
	}

	var layers []slog.Handler

	if cfg.Sinks.Console {
		layers = append(layers, logger.NewFilter(
			LayerConsole,
			logger.NewConsole(cfg.Output, cfg.ConsoleJSON, cfg.ConsoleLevel),
			logger.All(logger.ModulePrefix(cfg.ModulePrefix), logger.MinLevel(cfg.ConsoleLevel)),
			pm,
		))
	}

	if cfg.Sinks.File {
		f, err := logger.NewRotatingFile(cfg.LogDir, cfg.FilePrefix, cfg.FileMaxAge)
		if err != nil {
			return nil, h.abort(err)
		}
		h.file = f
		layers = append(layers, logger.NewFilter(
			LayerFile,
			logger.NewJSONFile(f, cfg.FileLevel),
			logger.MinLevel(cfg.FileLevel),
			pm,
		))
	}

	if cfg.Sinks.Telemetry {
		exp, err := tracing.NewExporter(ctx, cfg.TraceExporter, ep, cfg.Headers, cfg.Output)
		if err != nil {
			return nil, h.abort(err)
		}
		scopes := append([]string{cfg.ModulePrefix, otelhttp.ScopeName}, cfg.TraceScopes...)
		h.tp = sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(tracing.NewScopeFilter(sdktrace.NewBatchSpanProcessor(exp), scopes...)),
			sdktrace.WithResource(res),
		)
		layers = append(layers, logger.NewFilter(
			LayerTelemetry,
			logger.NewSpanEvents(),
			logger.ModulePrefix(cfg.ModulePrefix),
			pm,
		))
	}

	if cfg.Logs {
		exp, err := tracing.NewLogExporter(ctx, ep, cfg.Headers)
		if err != nil {
			return nil, h.abort(err)
		}
		h.lp = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
			sdklog.WithResource(res),
		)
		layers = append(layers, logger.NewFilter(
			LayerLogs,
			logger.NewOTelBridge(h.lp, cfg.ModulePrefix),
			logger.ModulePrefix(cfg.ModulePrefix),
			pm,
		))
	}

	h.logger = slog.New(logger.Fanout(layers...))
	h.logger.Debug("telemetry initialized",
		"project", cfg.ProjectName,
		"module_prefix", cfg.ModulePrefix,
		"console", cfg.Sinks.Console,
		"file", cfg.Sinks.File,
		"telemetry", cfg.Sinks.Telemetry,
		"logs", cfg.Logs,
		"metrics", cfg.Metrics,
		"endpoint", ep.URL(otlp.TracesPath),
	)
	return h, nil
}

// Tracer returns a tracer with the given name from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
