// Package tracing builds the span and log exporters, the service resource
// and the scope filter that keeps foreign instrumentation out of the
// exported trace stream.
//
// Export goes over OTLP/HTTP. Jaeger collectors accept this protocol
// directly, so no Jaeger-specific exporter is needed.
package tracing
