// Package httptrace instruments HTTP servers and clients with spans whose
// instrumentation scope is otelhttp. Add ScopeName to the pipeline's trace
// scopes to export them.
package httptrace

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of spans created here.
const ScopeName = otelhttp.ScopeName

// DefaultTransport is the base transport used by NewClient.
var DefaultTransport = http.DefaultTransport

type contextKey string

const peerKey contextKey = "httptrace.peer"

// WithPeer names the remote service for client spans started with ctx.
func WithPeer(ctx context.Context, peer string) context.Context {
	return context.WithValue(ctx, peerKey, peer)
}

func peerFrom(ctx context.Context) string {
	peer, _ := ctx.Value(peerKey).(string)
	return peer
}

// Middleware starts a server span per request, named "<METHOD> <path>".
func Middleware(opts ...otelhttp.Option) func(http.Handler) http.Handler {
	opts = append([]otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}, opts...)
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "http.request", opts...)
	}
}

// peerTransport tags the active client span with the peer and marks
// transport failures and error statuses.
type peerTransport struct {
	base http.RoundTripper
}

func (t *peerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	if peer := peerFrom(req.Context()); peer != "" {
		span.SetAttributes(attribute.String("peer.service", peer))
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP status %d", resp.StatusCode))
	}
	return resp, nil
}

// NewTransport wraps base so each request runs in a client span.
func NewTransport(base http.RoundTripper, opts ...otelhttp.Option) http.RoundTripper {
	if base == nil {
		base = DefaultTransport
	}
	opts = append([]otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if peer := peerFrom(r.Context()); peer != "" {
				return fmt.Sprintf("%s: %s %s", peer, r.Method, r.URL.Path)
			}
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	}, opts...)
	return otelhttp.NewTransport(&peerTransport{base: base}, opts...)
}

// NewClient returns an instrumented http.Client with the given timeout.
func NewClient(timeout time.Duration, opts ...otelhttp.Option) *http.Client {
	return &http.Client{
		Transport: NewTransport(DefaultTransport, opts...),
		Timeout:   timeout,
	}
}

// WrapClient instruments an existing client's transport in place.
func WrapClient(client *http.Client, opts ...otelhttp.Option) *http.Client {
	client.Transport = NewTransport(client.Transport, opts...)
	return client
}
