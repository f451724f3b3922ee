package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Error classes reported by ClassifyError.
const (
	ErrorClassTimeout = "timeout"
	ErrorClassNetwork = "net"
	ErrorClassOther   = "other"
)

var (
	// ErrNilResponse is returned when a RequestClient reports neither a response nor an error.
	ErrNilResponse = errors.New("calendar: request client returned nil response")

	// ErrResponseTooLarge is returned when a reply exceeds TransportConfig.MaxResponseBytes.
	ErrResponseTooLarge = errors.New("calendar: response body too large")
)

// networkErrorStrings contains error substrings indicating TCP-level failures.
var networkErrorStrings = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
}

// timeoutErrorStrings contains error substrings indicating timeout failures.
var timeoutErrorStrings = []string{
	"i/o timeout",
	"Client.Timeout exceeded",
	"TLS handshake timeout",
	"context deadline exceeded",
}

// HTTPError describes a reply with an unexpected status code.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s %s", e.StatusCode, e.Method, e.URL)
}

// NewHTTPError creates an HTTPError for a GET reply.
func NewHTTPError(resp *Response, rawURL string) *HTTPError {
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Method:     "GET",
		URL:        rawURL,
		Body:       resp.Body,
	}
}

// MaxAttemptsExceededError is returned by PollingProtocol when the attempt
// bound is reached before the service reports completion.
type MaxAttemptsExceededError struct {
	MaxAttempts int
	LastBody    string
}

// Error implements the error interface.
func (e *MaxAttemptsExceededError) Error() string {
	return fmt.Sprintf("max attempts (%d) exceeded, last response: %q", e.MaxAttempts, e.LastBody)
}

// DecodeError is returned when a 200 reply does not carry a holiday map.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode holidays from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ConfigurationError represents an invalid configuration value.
type ConfigurationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(field string, value any, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeoutError reports whether err is a timeout reported by the transport
// or by the request context.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return IsTimeoutError(urlErr.Err)
	}

	return containsAny(err.Error(), timeoutErrorStrings)
}

// IsTransportError reports whether err is a connection level failure, a
// timeout included. Such failures are worth a manual retry by the caller.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}

	if IsTimeoutError(err) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return IsTransportError(urlErr.Err)
	}

	return containsAny(err.Error(), networkErrorStrings)
}

// ClassifyError returns the error class used in logs and metrics.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if IsTimeoutError(err) {
		return ErrorClassTimeout
	}

	if IsTransportError(err) {
		return ErrorClassNetwork
	}

	return ErrorClassOther
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
