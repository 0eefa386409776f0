package otlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       Endpoint
		tracesPath string
	}{
		{
			name:       "empty",
			raw:        "",
			want:       Endpoint{},
			tracesPath: "/v1/traces",
		},
		{
			name:       "plain http with signal path",
			raw:        "http://192.168.1.100:4318/v1/traces",
			want:       Endpoint{Host: "192.168.1.100:4318", Insecure: true},
			tracesPath: "/v1/traces",
		},
		{
			name:       "https with base path",
			raw:        "https://otlp-gateway.grafana.net/otlp",
			want:       Endpoint{Host: "otlp-gateway.grafana.net", BasePath: "/otlp"},
			tracesPath: "/otlp/v1/traces",
		},
		{
			name:       "base path with signal and trailing slash",
			raw:        "https://collector.example.com/ingest/v1/logs",
			want:       Endpoint{Host: "collector.example.com", BasePath: "/ingest"},
			tracesPath: "/ingest/v1/traces",
		},
		{
			name:       "bare host",
			raw:        "collector:4318",
			want:       Endpoint{Host: "collector:4318"},
			tracesPath: "/v1/traces",
		},
		{
			name:       "trailing slash only",
			raw:        "http://localhost:4318/",
			want:       Endpoint{Host: "localhost:4318", Insecure: true},
			tracesPath: "/v1/traces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEndpoint(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tracesPath, got.Path(TracesPath))
		})
	}
}

func TestEndpointURL(t *testing.T) {
	ep := ParseEndpoint("http://192.168.1.100:4318")
	assert.Equal(t, "http://192.168.1.100:4318/v1/metrics", ep.URL(MetricsPath))

	ep = ParseEndpoint("https://example.com/otlp")
	assert.Equal(t, "https://example.com/otlp/v1/logs", ep.URL(LogsPath))
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("Authorization=Basic%20abc, x-scope = team-a,broken,=novalue")
	assert.Equal(t, map[string]string{
		"Authorization": "Basic abc",
		"x-scope":       "team-a",
	}, got)

	assert.Empty(t, ParseHeaders(""))
}
