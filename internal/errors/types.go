package errors

import (
	"errors"
	"fmt"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "CONFIG_ERROR"
	ErrorTypeExporter ErrorType = "EXPORTER_ERROR"
	ErrorTypeSink     ErrorType = "SINK_ERROR"
	ErrorTypeShutdown ErrorType = "SHUTDOWN_ERROR"
)

var (
	ErrNilContext         = errors.New("telemetry: nil context")
	ErrEmptyProjectName   = errors.New("telemetry: project name is required")
	ErrUnknownExporter    = errors.New("telemetry: unknown exporter")
	ErrAlreadyInitialized = errors.New("telemetry: already initialized")
)

// TelemetryError represents a structured error raised while building or
// tearing down the telemetry pipeline.
type TelemetryError struct {
	Type      ErrorType
	Message   string
	ErrorCode string
	Err       error
}

// Error implements the error interface
func (e *TelemetryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying library error so callers can match on it.
func (e *TelemetryError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *TelemetryError) Code() string {
	return e.ErrorCode
}

// IsRetryable reports whether repeating the failed operation may succeed.
// Only export-side failures are transient; bad configuration never is.
func (e *TelemetryError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeExporter, ErrorTypeShutdown:
		return e.Err != nil
	default:
		return false
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string, errorCode string, err error) *TelemetryError {
	return &TelemetryError{
		Type:      ErrorTypeConfig,
		Message:   message,
		ErrorCode: errorCode,
		Err:       err,
	}
}

// NewExporterError creates a new exporter construction error
func NewExporterError(message string, errorCode string, err error) *TelemetryError {
	return &TelemetryError{
		Type:      ErrorTypeExporter,
		Message:   message,
		ErrorCode: errorCode,
		Err:       err,
	}
}

// NewSinkError creates a new error for a log sink (file, console) that
// could not be set up
func NewSinkError(message string, errorCode string, err error) *TelemetryError {
	return &TelemetryError{
		Type:      ErrorTypeSink,
		Message:   message,
		ErrorCode: errorCode,
		Err:       err,
	}
}

// NewShutdownError creates a new shutdown error
func NewShutdownError(message string, errorCode string, err error) *TelemetryError {
	return &TelemetryError{
		Type:      ErrorTypeShutdown,
		Message:   message,
		ErrorCode: errorCode,
		Err:       err,
	}
}

// TypeOf returns the ErrorType of the first TelemetryError in err's chain,
// or the empty string.
func TypeOf(err error) ErrorType {
	var te *TelemetryError
	if errors.As(err, &te) {
		return te.Type
	}
	return ""
}
