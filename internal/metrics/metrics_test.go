package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"

	telerrors "github.com/socialchef/telekit/internal/errors"
	"github.com/socialchef/telekit/internal/otlp"
)

func sumsByLayer(t *testing.T, rm metricdata.ResourceMetrics, name string) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected int64 sum for %s", name)
			for _, dp := range sum.DataPoints {
				layer, _ := dp.Attributes.Value("layer")
				out[layer.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestPipelineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	ctx := context.Background()

	m, err := NewPipelineMetrics(mp)
	require.NoError(t, err)

	m.RecordForwarded(ctx, "console")
	m.RecordForwarded(ctx, "console")
	m.RecordForwarded(ctx, "file")
	m.RecordFiltered(ctx, "telemetry")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, map[string]int64{"console": 2, "file": 1}, sumsByLayer(t, rm, "telekit.log.records"))
	assert.Equal(t, map[string]int64{"telemetry": 1}, sumsByLayer(t, rm, "telekit.log.filtered"))
}

func TestPipelineMetrics_Nil(t *testing.T) {
	var m *PipelineMetrics
	m.RecordForwarded(context.Background(), "console")
	m.RecordFiltered(context.Background(), "console")
}

func TestEnabled(t *testing.T) {
	assert.False(t, Enabled(""))
	assert.False(t, Enabled(ExporterNone))
	assert.True(t, Enabled(ExporterPrometheus))
	assert.True(t, Enabled(ExporterOTLP))
}

func TestNewMeterProvider_Prometheus(t *testing.T) {
	ctx := context.Background()
	mp, handler, err := NewMeterProvider(ctx, ExporterPrometheus, otlp.Endpoint{}, nil, resource.Empty(), nil)
	require.NoError(t, err)
	require.NotNil(t, handler)
	defer mp.Shutdown(ctx)

	m, err := NewPipelineMetrics(mp)
	require.NoError(t, err)
	m.RecordForwarded(ctx, "file")

	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "telekit_log_records") || strings.Contains(text, "telekit.log.records"), text)

	// A second provider must not collide with the first one's registry.
	mp2, _, err := NewMeterProvider(ctx, ExporterPrometheus, otlp.Endpoint{}, nil, resource.Empty(), nil)
	require.NoError(t, err)
	require.NoError(t, mp2.Shutdown(ctx))
}

func TestNewMeterProvider_Stdout(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	mp, handler, err := NewMeterProvider(ctx, ExporterStdout, otlp.Endpoint{}, nil, resource.Empty(), &buf)
	require.NoError(t, err)
	assert.Nil(t, handler)

	m, err := NewPipelineMetrics(mp)
	require.NoError(t, err)
	m.RecordFiltered(ctx, "console")

	require.NoError(t, mp.Shutdown(ctx))
	assert.Contains(t, buf.String(), "telekit.log.filtered")
}

func TestNewMeterProvider_OTLP(t *testing.T) {
	ctx := context.Background()
	mp, handler, err := NewMeterProvider(ctx, ExporterOTLP, otlp.ParseEndpoint("http://127.0.0.1:4318"), nil, resource.Empty(), nil)
	require.NoError(t, err)
	assert.Nil(t, handler)
	require.NotNil(t, mp)
	require.NoError(t, StartRuntime(mp))
}

func TestNewMeterProvider_Unknown(t *testing.T) {
	_, _, err := NewMeterProvider(context.Background(), "statsd", otlp.Endpoint{}, nil, resource.Empty(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, telerrors.ErrUnknownExporter))
}
