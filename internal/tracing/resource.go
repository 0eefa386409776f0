package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	telerrors "github.com/socialchef/telekit/internal/errors"
)

// NewResource describes this process to the collector. Every call gets a
// fresh service.instance.id.
func NewResource(ctx context.Context, serviceName, serviceVersion, env string) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceInstanceIDKey.String(uuid.NewString()),
		),
		resource.WithTelemetrySDK(),
	}
	if serviceVersion != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersionKey.String(serviceVersion)))
	}
	if env != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironmentKey.String(env)))
	}

	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, telerrors.NewConfigError("failed to build resource", "RESOURCE", err)
	}
	return res, nil
}
