package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTelemetryError_Error(t *testing.T) {
	err := &TelemetryError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &TelemetryError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
}

func TestTelemetryError_Code(t *testing.T) {
	err := &TelemetryError{
		ErrorCode: "ERR_CODE_123",
	}
	if err.Code() != "ERR_CODE_123" {
		t.Errorf("expected ERR_CODE_123, got %v", err.Code())
	}
}

func TestTelemetryError_Unwrap(t *testing.T) {
	underlying := errors.New("dial tcp: connection refused")
	err := NewExporterError("could not create trace exporter", "TRACE_EXPORTER", underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}

	wrapped := fmt.Errorf("init: %w", err)
	var te *TelemetryError
	if !errors.As(wrapped, &te) {
		t.Fatal("errors.As should find TelemetryError through fmt wrapping")
	}
	if te.Code() != "TRACE_EXPORTER" {
		t.Errorf("expected TRACE_EXPORTER, got %v", te.Code())
	}
}

func TestTelemetryError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *TelemetryError
		want bool
	}{
		{
			name: "exporter error with cause is retryable",
			err:  NewExporterError("export failed", "EXPORT", errors.New("timeout")),
			want: true,
		},
		{
			name: "shutdown error with cause is retryable",
			err:  NewShutdownError("flush failed", "FLUSH", errors.New("connection reset")),
			want: true,
		},
		{
			name: "exporter error without cause is not retryable",
			err:  NewExporterError("export failed", "EXPORT", nil),
			want: false,
		},
		{
			name: "config error is not retryable",
			err:  NewConfigError("bad config", "CONFIG", errors.New("missing")),
			want: false,
		},
		{
			name: "sink error is not retryable",
			err:  NewSinkError("no log dir", "LOG_DIR", errors.New("permission denied")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("TelemetryError.IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(NewSinkError("x", "X", nil)); got != ErrorTypeSink {
		t.Errorf("expected %v, got %v", ErrorTypeSink, got)
	}
	if got := TypeOf(fmt.Errorf("outer: %w", NewConfigError("x", "X", nil))); got != ErrorTypeConfig {
		t.Errorf("expected %v, got %v", ErrorTypeConfig, got)
	}
	if got := TypeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty type, got %v", got)
	}
}
