// Package pgxtrace builds pgx connection pools whose queries are traced.
package pgxtrace

import (
	"context"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName is the instrumentation scope of query spans.
const ScopeName = "github.com/exaring/otelpgx"

// ParseConfig parses databaseURL, applies the pool limits and installs a
// query tracer using tp. A nil tp uses the global tracer provider.
func ParseConfig(databaseURL string, tp trace.TracerProvider) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	var opts []otelpgx.Option
	if tp != nil {
		opts = append(opts, otelpgx.WithTracerProvider(tp))
	}
	config.ConnConfig.Tracer = otelpgx.NewTracer(opts...)

	return config, nil
}

func NewPool(ctx context.Context, databaseURL string, tp trace.TracerProvider) (*pgxpool.Pool, error) {
	config, err := ParseConfig(databaseURL, tp)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, config)
}
