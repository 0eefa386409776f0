package tracing

import (
	"context"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type scopeFilter struct {
	prefixes []string
	next     sdktrace.SpanProcessor
}

// NewScopeFilter forwards only spans whose instrumentation scope name
// starts with one of prefixes. Everything else never reaches next.
func NewScopeFilter(next sdktrace.SpanProcessor, prefixes ...string) sdktrace.SpanProcessor {
	return &scopeFilter{prefixes: prefixes, next: next}
}

func (p *scopeFilter) allowed(scope string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(scope, prefix) {
			return true
		}
	}
	return false
}

func (p *scopeFilter) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if p.allowed(s.InstrumentationScope().Name) {
		p.next.OnStart(parent, s)
	}
}

func (p *scopeFilter) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.allowed(s.InstrumentationScope().Name) {
		p.next.OnEnd(s)
	}
}

func (p *scopeFilter) Shutdown(ctx context.Context) error {
	return p.next.Shutdown(ctx)
}

func (p *scopeFilter) ForceFlush(ctx context.Context) error {
	return p.next.ForceFlush(ctx)
}
