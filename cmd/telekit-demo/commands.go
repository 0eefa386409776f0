package main

import (
	"github.com/spf13/cobra"

	"github.com/socialchef/telekit/internal/config"
)

var (
	configPath   string
	modulePrefix string
	console      bool
	file         bool
	telemetryOn  bool
	logs         bool
	metricsKind  string
	port         string

	rootCmd = &cobra.Command{
		Use:   "telekit-demo",
		Short: "Example service wired through the telekit pipeline",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP server that logs and traces through telekit",
		RunE:  runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "YAML config file")

	serveCmd.Flags().StringVar(&modulePrefix, "module-prefix", "github.com/socialchef/telekit", "import path prefix kept by the console and telemetry layers")
	serveCmd.Flags().BoolVar(&console, "console", true, "log to stdout")
	serveCmd.Flags().BoolVar(&file, "file", true, "log to daily files")
	serveCmd.Flags().BoolVar(&telemetryOn, "telemetry", true, "export spans to the collector")
	serveCmd.Flags().BoolVar(&logs, "logs", false, "export log records to the collector")
	serveCmd.Flags().StringVar(&metricsKind, "metrics", "", "metrics exporter: none, otlp, prometheus or stdout")
	serveCmd.Flags().StringVar(&port, "port", "", "listen port")

	rootCmd.AddCommand(serveCmd)
}

// applyFlags lets explicitly set flags win over env and YAML.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("console") {
		cfg.Console = console
	}
	if flags.Changed("file") {
		cfg.File = file
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry = telemetryOn
	}
	if flags.Changed("logs") {
		cfg.Logs = logs
	}
	if flags.Changed("metrics") {
		cfg.Metrics = metricsKind
	}
	if flags.Changed("port") {
		cfg.Port = port
	}
}
