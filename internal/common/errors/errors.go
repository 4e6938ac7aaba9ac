// Package errors provides the standardized error codes shared by resolvers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamStatus      ErrorCode = "UPSTREAM_STATUS"
	ErrCodeUpstreamParseFailed ErrorCode = "UPSTREAM_PARSE_FAILED"

	ErrCodeLogStoreFailed  ErrorCode = "LOG_STORE_FAILED"
	ErrCodeLogQueryFailed  ErrorCode = "LOG_QUERY_FAILED"
	ErrCodeInvalidLogInput ErrorCode = "INVALID_LOG_INPUT"

	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeInvalidSessionKey   ErrorCode = "INVALID_SESSION_KEY"
	ErrCodeInvalidSessionValue ErrorCode = "INVALID_SESSION_VALUE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

func NewUpstreamUnavailableError(err error) *StandardError {
	return newError(ErrCodeUpstreamUnavailable, "Failed to fetch data from Australia API.", err)
}

// NewUpstreamStatusError records a non-2xx answer. upstreamMessage is the
// upstream's own error text, if it sent one.
func NewUpstreamStatusError(status int, upstreamMessage string) *StandardError {
	se := newError(ErrCodeUpstreamStatus, fmt.Sprintf("upstream returned status %d", status), nil)
	se.Metadata = map[string]interface{}{"status": status}
	if upstreamMessage != "" {
		se.Metadata["upstreamMessage"] = upstreamMessage
	}
	return se
}

func NewUpstreamParseError(err error) *StandardError {
	return newError(ErrCodeUpstreamParseFailed, "upstream response could not be parsed", err)
}

func NewLogStoreFailedError(err error) *StandardError {
	return newError(ErrCodeLogStoreFailed, "failed to store activity log", err)
}

func NewLogQueryFailedError(err error) *StandardError {
	return newError(ErrCodeLogQueryFailed, "failed to query activity logs", err)
}

func NewInvalidLogInputError(details string) *StandardError {
	se := newError(ErrCodeInvalidLogInput, "activity log input is invalid", nil)
	se.Details = details
	return se
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "session store error", err)
}

func NewInvalidSessionKeyError(key string) *StandardError {
	se := newError(ErrCodeInvalidSessionKey, "unknown session state key", nil)
	se.Details = fmt.Sprintf("key: %s", key)
	return se
}

func NewInvalidSessionValueError(err error) *StandardError {
	return newError(ErrCodeInvalidSessionValue, "session state value must be valid JSON", err)
}

// CodeOf returns the ErrorCode carried by err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// As finds the first StandardError in err's chain.
func As(err error) (*StandardError, bool) {
	var se *StandardError
	ok := stderrors.As(err, &se)
	return se, ok
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "UPSTREAM"):
		return "UPSTREAM"
	case strings.HasPrefix(codeStr, "LOG"):
		return "ACTIVITY_LOG"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.HasPrefix(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
