// Package otlp turns a single collector URL into the host, path and TLS
// settings the OTLP/HTTP exporters expect for each signal.
package otlp

import (
	"net/url"
	"strings"
)

// Signal paths relative to the collector base path.
const (
	TracesPath  = "/v1/traces"
	LogsPath    = "/v1/logs"
	MetricsPath = "/v1/metrics"
)

// Endpoint is a parsed collector address.
type Endpoint struct {
	// Host is host[:port] without scheme. Empty means exporter defaults.
	Host string
	// BasePath is the path prefix shared by all signals, without a
	// trailing slash or signal suffix.
	BasePath string
	// Insecure is set for plain http:// endpoints.
	Insecure bool
}

// ParseEndpoint accepts "http(s)://host:port[/base][/v1/<signal>]" or a bare
// "host:port[/base]". A bare address is treated as TLS.
func ParseEndpoint(raw string) Endpoint {
	endpoint := strings.TrimSpace(raw)
	var ep Endpoint
	if endpoint == "" {
		return ep
	}

	if strings.HasPrefix(endpoint, "https://") {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	} else if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		ep.Insecure = true
	}

	basePath := ""
	if idx := strings.Index(endpoint, "/"); idx > 0 {
		basePath = endpoint[idx:]
		endpoint = endpoint[:idx]
	}
	ep.Host = endpoint

	basePath = strings.TrimSuffix(basePath, TracesPath)
	basePath = strings.TrimSuffix(basePath, LogsPath)
	basePath = strings.TrimSuffix(basePath, MetricsPath)
	ep.BasePath = strings.TrimSuffix(basePath, "/")
	return ep
}

// Path returns the URL path for a signal, e.g. Path(TracesPath).
func (e Endpoint) Path(signal string) string {
	return e.BasePath + signal
}

// URL renders the endpoint for a signal, mostly for logging.
func (e Endpoint) URL(signal string) string {
	scheme := "https"
	if e.Insecure {
		scheme = "http"
	}
	u := url.URL{Scheme: scheme, Host: e.Host, Path: e.Path(signal)}
	return u.String()
}

// ParseHeaders parses the OTEL_EXPORTER_OTLP_HEADERS format
// "k1=v1,k2=v2". Values are URL-decoded; malformed pairs are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(strings.TrimSpace(v)); err == nil {
			v = decoded
		}
		headers[k] = strings.TrimSpace(v)
	}
	return headers
}
