// Package telemetry wires a process's logging and tracing in one call.
//
// Init takes a project name and three toggles: a console layer, a daily
// rolling file layer under ./logs, and a telemetry layer that exports spans
// over OTLP/HTTP to a collector (Jaeger, Tempo, or anything else speaking
// OTLP). Each layer sees every slog record and applies its own filter:
//
//   - console: records from packages under the project's module prefix at
//     Info or above
//   - file: every record from every package
//   - telemetry: records from packages under the module prefix, attached as
//     events to the span active in the record's context
//
// The returned *Handle must be shut down on exit so buffered spans reach the
// collector:
//
//	h, err := telemetry.Init(ctx, "github.com/acme/billing", telemetry.Sinks{
//	    Console:   true,
//	    File:      true,
//	    Telemetry: true,
//	})
//	if err != nil {
//	    log.Fatalf("init telemetry: %v", err)
//	}
//	defer h.Close()
package telemetry
