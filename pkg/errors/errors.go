package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies the failures the pipeline can produce
type ErrorType string

const (
	// ErrorTypeValidation indicates input data of the wrong shape
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUserBoard indicates a domain-level failure: the server
	// reported an error for the profile, or the user has no boards
	ErrorTypeUserBoard ErrorType = "user_board"
	// ErrorTypeParse indicates expected structure missing from an
	// HTML page, JSON payload or playlist manifest
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeProtocol indicates the feed API violated its contract
	ErrorTypeProtocol ErrorType = "protocol"
	// ErrorTypeNetwork indicates a transport or HTTP status failure
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a typed pipeline error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// NewWithCode creates a typed error carrying an HTTP status code
func NewWithCode(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// TypeOf returns the error type of err, or ErrorTypeUnknown if err is
// not a typed error
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is a typed error of the given type
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// IsFatal reports whether err should abort the whole run. Discovery and
// protocol failures are fatal; per-resource download failures are plain
// network errors counted by the orchestrator instead.
func IsFatal(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeValidation, ErrorTypeUserBoard, ErrorTypeParse, ErrorTypeProtocol:
		return true
	default:
		return false
	}
}
