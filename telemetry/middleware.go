package telemetry

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Middleware returns a chi-compatible middleware that starts a server span
// per request using the global tracer provider. Spans carry the otelhttp
// scope, which New always exports.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "http.request")
	}
}

// Middleware is the package-level Middleware bound to this handle's tracer
// provider, for pipelines built with New rather than Init.
func (h *Handle) Middleware() func(http.Handler) http.Handler {
	tp := h.TracerProvider()
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "http.request", otelhttp.WithTracerProvider(tp))
	}
}
