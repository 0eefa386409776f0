package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/telekit/internal/logger"
	"github.com/socialchef/telekit/telemetry"
)

func TestRouter(t *testing.T) {
	var out strings.Builder
	h, err := telemetry.New(context.Background(), telemetry.Config{
		ProjectName:  "telekit-demo",
		ModulePrefix: "github.com/socialchef/telekit",
		Sinks:        telemetry.Sinks{Console: true},
		Output:       &out,
		Metrics:      "prometheus",
	})
	require.NoError(t, err)
	defer h.Close()

	r := newRouter(h, h.Logger().With(logger.ModuleKey, serviceModule), nil, nil)

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/health", http.StatusOK, "OK"},
		{"/ping", http.StatusOK, "pong"},
		{"/db", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, rec.Code, tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, rec.Body.String(), tt.path)
		}
	}

	assert.Contains(t, out.String(), "Pong")
	assert.NotContains(t, out.String(), "Handling ping")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "telekit_log_records")
}
