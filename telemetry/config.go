package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	telerrors "github.com/socialchef/telekit/internal/errors"
	"github.com/socialchef/telekit/internal/logger"
)

// DefaultCollectorEndpoint is the OTLP/HTTP trace receiver used when none
// is configured.
const DefaultCollectorEndpoint = "http://192.168.1.100:4318/v1/traces"

// LevelTrace is the most verbose level; the file layer records it by default.
const LevelTrace = logger.LevelTrace

// Layer names, as reported in the telekit.log.* metrics.
const (
	LayerConsole   = "console"
	LayerFile      = "file"
	LayerTelemetry = "telemetry"
	LayerLogs      = "logs"
)

var (
	ErrNilContext         = telerrors.ErrNilContext
	ErrEmptyProjectName   = telerrors.ErrEmptyProjectName
	ErrUnknownExporter    = telerrors.ErrUnknownExporter
	ErrAlreadyInitialized = telerrors.ErrAlreadyInitialized
)

// Sinks selects which layers are built.
type Sinks struct {
	Console   bool
	File      bool
	Telemetry bool
}

// Config controls the pipeline. Zero fields take the defaults documented on
// each field; DefaultConfig fills them explicitly.
type Config struct {
	// ProjectName names the service and the log files. Required.
	ProjectName string

	// ModulePrefix is matched against the import path of the package that
	// emitted a record. Default: ProjectName.
	ModulePrefix string

	Sinks Sinks

	// Logs additionally exports records from the module prefix as OTLP log
	// records to the collector.
	Logs bool

	// ConsoleLevel is the console threshold. Default: slog.LevelInfo.
	// A *slog.LevelVar allows changing it at runtime.
	ConsoleLevel slog.Leveler
	// FileLevel is the file threshold. Default: LevelTrace.
	FileLevel slog.Leveler
	// ConsoleJSON switches the console from key=value text to JSON.
	ConsoleJSON bool
	// Output receives console records and stdout exporters. Default: os.Stdout.
	Output io.Writer

	// LogDir holds the rolling log files. Default: "./logs".
	LogDir string
	// FilePrefix starts every log file name. Default: "log_<ProjectName>_".
	FilePrefix string
	// FileMaxAge prunes rotated files older than this. Default: 7 days.
	// Negative keeps files forever.
	FileMaxAge time.Duration

	// TraceExporter is "otlp" (default), "jaeger" (same as otlp) or "stdout".
	TraceExporter string
	// CollectorEndpoint is the OTLP/HTTP endpoint. Default: DefaultCollectorEndpoint.
	CollectorEndpoint string
	// Headers are sent with every export request.
	Headers map[string]string
	// TraceScopes lists extra instrumentation scope prefixes whose spans are
	// exported. The module prefix and otelhttp (used by Middleware) are
	// always exported.
	TraceScopes []string

	// Metrics is "" or "none" (default), "otlp", "prometheus" or "stdout".
	Metrics string

	ServiceVersion string
	Environment    string

	// ShutdownTimeout bounds Handle.Close. Default: 5s.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with every layer enabled.
func DefaultConfig(projectName string) Config {
	cfg := Config{
		ProjectName: projectName,
		Sinks:       Sinks{Console: true, File: true, Telemetry: true},
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.ModulePrefix == "" {
		c.ModulePrefix = c.ProjectName
	}
	if c.ConsoleLevel == nil {
		c.ConsoleLevel = slog.LevelInfo
	}
	if c.FileLevel == nil {
		c.FileLevel = LevelTrace
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.LogDir == "" {
		c.LogDir = "./logs"
	}
	if c.FilePrefix == "" {
		c.FilePrefix = "log_" + fileSafe(c.ProjectName) + "_"
	}
	if c.FileMaxAge == 0 {
		c.FileMaxAge = 7 * 24 * time.Hour
	}
	if c.TraceExporter == "" {
		c.TraceExporter = "otlp"
	}
	if c.CollectorEndpoint == "" {
		c.CollectorEndpoint = DefaultCollectorEndpoint
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	return c
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return telerrors.NewConfigError("project name must not be blank", "PROJECT_NAME", ErrEmptyProjectName)
	}
	if c.ShutdownTimeout < 0 {
		return telerrors.NewConfigError("shutdown timeout must not be negative", "SHUTDOWN_TIMEOUT", nil)
	}
	return nil
}

// fileSafe makes an import path usable inside a file name.
func fileSafe(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_").Replace(name)
}

// Option adjusts a Config built by Init.
type Option func(*Config)

func WithModulePrefix(prefix string) Option {
	return func(c *Config) { c.ModulePrefix = prefix }
}

func WithLogs(enabled bool) Option {
	return func(c *Config) { c.Logs = enabled }
}

func WithConsoleLevel(level slog.Leveler) Option {
	return func(c *Config) { c.ConsoleLevel = level }
}

func WithFileLevel(level slog.Leveler) Option {
	return func(c *Config) { c.FileLevel = level }
}

func WithConsoleJSON(enabled bool) Option {
	return func(c *Config) { c.ConsoleJSON = enabled }
}

func WithOutput(w io.Writer) Option {
	return func(c *Config) { c.Output = w }
}

func WithLogDir(dir string) Option {
	return func(c *Config) { c.LogDir = dir }
}

func WithFilePrefix(prefix string) Option {
	return func(c *Config) { c.FilePrefix = prefix }
}

func WithFileMaxAge(d time.Duration) Option {
	return func(c *Config) { c.FileMaxAge = d }
}

func WithTraceExporter(kind string) Option {
	return func(c *Config) { c.TraceExporter = kind }
}

func WithCollectorEndpoint(endpoint string) Option {
	return func(c *Config) { c.CollectorEndpoint = endpoint }
}

func WithHeaders(headers map[string]string) Option {
	return func(c *Config) { c.Headers = headers }
}

func WithTraceScopes(prefixes ...string) Option {
	return func(c *Config) { c.TraceScopes = append(c.TraceScopes, prefixes...) }
}

func WithMetrics(kind string) Option {
	return func(c *Config) { c.Metrics = kind }
}

func WithServiceVersion(version string) Option {
	return func(c *Config) { c.ServiceVersion = version }
}

func WithEnvironment(env string) Option {
	return func(c *Config) { c.Environment = env }
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) { c.ShutdownTimeout = d }
}
