package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/socialchef/telekit"

// PipelineMetrics counts what each logging layer did with the records it
// saw. A nil *PipelineMetrics records nothing.
type PipelineMetrics struct {
	forwarded metric.Int64Counter
	filtered  metric.Int64Counter
}

func NewPipelineMetrics(mp metric.MeterProvider) (*PipelineMetrics, error) {
	meter := mp.Meter(meterName)

	forwarded, err := meter.Int64Counter(
		"telekit.log.records",
		metric.WithDescription("Log records forwarded to a layer"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	filtered, err := meter.Int64Counter(
		"telekit.log.filtered",
		metric.WithDescription("Log records rejected by a layer's filter"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		forwarded: forwarded,
		filtered:  filtered,
	}, nil
}

func (m *PipelineMetrics) RecordForwarded(ctx context.Context, layer string) {
	if m == nil {
		return
	}
	m.forwarded.Add(ctx, 1, metric.WithAttributes(attribute.String("layer", layer)))
}

func (m *PipelineMetrics) RecordFiltered(ctx context.Context, layer string) {
	if m == nil {
		return
	}
	m.filtered.Add(ctx, 1, metric.WithAttributes(attribute.String("layer", layer)))
}
