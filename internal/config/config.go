package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/socialchef/telekit/internal/logger"
	"github.com/socialchef/telekit/internal/otlp"
	"github.com/socialchef/telekit/telemetry"
)

// DefaultFile is read by Load when present in the working directory.
const DefaultFile = "telekit.yaml"

type Config struct {
	Env            string
	ServiceVersion string

	Project string

	Console   bool
	File      bool
	Telemetry bool
	Logs      bool

	ConsoleLevel string
	FileLevel    string
	LogDir       string

	TraceExporter string
	Metrics       string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string

	Port string
}

// Load reads the environment, then DefaultFile, applies defaults and
// validates. Values from the YAML file win over the environment.
func Load() (*Config, error) {
	return LoadFile(DefaultFile)
}

// LoadFile is Load with an explicit YAML path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		Project:                  os.Getenv("TELEKIT_PROJECT"),
		ConsoleLevel:             os.Getenv("TELEKIT_CONSOLE_LEVEL"),
		FileLevel:                os.Getenv("TELEKIT_FILE_LEVEL"),
		LogDir:                   os.Getenv("TELEKIT_LOG_DIR"),
		TraceExporter:            os.Getenv("TELEKIT_TRACE_EXPORTER"),
		Metrics:                  os.Getenv("TELEKIT_METRICS"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		Port:                     os.Getenv("PORT"),
	}

	toggles := []struct {
		key string
		def bool
		dst *bool
	}{
		{"TELEKIT_CONSOLE", true, &cfg.Console},
		{"TELEKIT_FILE", true, &cfg.File},
		{"TELEKIT_TELEMETRY", true, &cfg.Telemetry},
		{"TELEKIT_LOGS", false, &cfg.Logs},
	}
	for _, tg := range toggles {
		v, err := envBool(tg.key, tg.def)
		if err != nil {
			return nil, err
		}
		*tg.dst = v
	}

	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

type yamlConfig struct {
	Project        string `yaml:"project"`
	Env            string `yaml:"env"`
	ServiceVersion string `yaml:"service_version"`
	Sinks          struct {
		Console   *bool `yaml:"console"`
		File      *bool `yaml:"file"`
		Telemetry *bool `yaml:"telemetry"`
		Logs      *bool `yaml:"logs"`
	} `yaml:"sinks"`
	ConsoleLevel  string `yaml:"console_level"`
	FileLevel     string `yaml:"file_level"`
	LogDir        string `yaml:"log_dir"`
	TraceExporter string `yaml:"trace_exporter"`
	Metrics       string `yaml:"metrics"`
	Endpoint      string `yaml:"endpoint"`
	Port          string `yaml:"port"`
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&c.Project, y.Project)
	setString(&c.Env, y.Env)
	setString(&c.ServiceVersion, y.ServiceVersion)
	setBool(&c.Console, y.Sinks.Console)
	setBool(&c.File, y.Sinks.File)
	setBool(&c.Telemetry, y.Sinks.Telemetry)
	setBool(&c.Logs, y.Sinks.Logs)
	setString(&c.ConsoleLevel, y.ConsoleLevel)
	setString(&c.FileLevel, y.FileLevel)
	setString(&c.LogDir, y.LogDir)
	setString(&c.TraceExporter, y.TraceExporter)
	setString(&c.Metrics, y.Metrics)
	setString(&c.OtelExporterOTLPEndpoint, y.Endpoint)
	setString(&c.Port, y.Port)

	return nil
}

func (c *Config) SetDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Project == "" {
		c.Project = "telekit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "1.0.0"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
}

// TelemetryConfig converts the loaded values into a pipeline configuration.
func (c *Config) TelemetryConfig() telemetry.Config {
	cfg := telemetry.DefaultConfig(c.Project)
	cfg.Sinks = telemetry.Sinks{Console: c.Console, File: c.File, Telemetry: c.Telemetry}
	cfg.Logs = c.Logs
	cfg.ConsoleLevel = logger.ParseLevel(c.ConsoleLevel, slog.LevelInfo)
	cfg.FileLevel = logger.ParseLevel(c.FileLevel, logger.LevelTrace)
	cfg.ConsoleJSON = c.Env == "production"
	cfg.Metrics = c.Metrics
	cfg.ServiceVersion = c.ServiceVersion
	cfg.Environment = c.Env
	cfg.Headers = otlp.ParseHeaders(c.OtelExporterOTLPHeaders)
	if c.LogDir != "" {
		cfg.LogDir = c.LogDir
	}
	if c.TraceExporter != "" {
		cfg.TraceExporter = c.TraceExporter
	}
	if c.OtelExporterOTLPEndpoint != "" {
		cfg.CollectorEndpoint = c.OtelExporterOTLPEndpoint
	}
	return cfg
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Project) == "" {
		return fmt.Errorf("TELEKIT_PROJECT must not be blank")
	}
	if !validLevel(c.ConsoleLevel) {
		return fmt.Errorf("unknown console level %q", c.ConsoleLevel)
	}
	if !validLevel(c.FileLevel) {
		return fmt.Errorf("unknown file level %q", c.FileLevel)
	}
	switch c.TraceExporter {
	case "", "otlp", "jaeger", "stdout":
	default:
		return fmt.Errorf("unknown trace exporter %q", c.TraceExporter)
	}
	switch c.Metrics {
	case "", "none", "otlp", "prometheus", "stdout":
	default:
		return fmt.Errorf("unknown metrics exporter %q", c.Metrics)
	}
	return nil
}

func validLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// envBool reads a boolean toggle. Unset or empty means def; anything
// strconv.ParseBool rejects is an error.
func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid boolean %q for %s", v, key)
	}
	return b, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
