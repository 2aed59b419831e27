// Package errors provides the standardized error taxonomy for payload encoding and decoding.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMalformedPayload    ErrorCode = "MALFORMED_PAYLOAD"
	ErrCodePayloadEncodeFailed ErrorCode = "PAYLOAD_ENCODE_FAILED"
	ErrCodeUnknownPayloadKind  ErrorCode = "UNKNOWN_PAYLOAD_KIND"
	ErrCodeConfigInvalid       ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// Violation codes reported per offending field.
const (
	ViolationRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	ViolationInvalidType          = "INVALID_TYPE"
	ViolationInvalidJSON          = "INVALID_JSON"
	ViolationSchema               = "SCHEMA_VIOLATION"
)

// Violation describes a single offending field of a payload. Field is the wire path,
// e.g. "age_group" or "recommendations.0.title".
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Violations []Violation            `json:"violations,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
}

// Is reports whether target is a StandardError carrying the same code, so callers can
// match with errors.Is(err, ErrMalformedPayload).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HasViolation checks if the error carries a violation for the given wire field.
func (e *StandardError) HasViolation(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Sentinels for errors.Is matching. Only the Code is compared.
var (
	ErrMalformedPayload   = &StandardError{Code: ErrCodeMalformedPayload}
	ErrUnknownPayloadKind = &StandardError{Code: ErrCodeUnknownPayloadKind}
	ErrConfigInvalid      = &StandardError{Code: ErrCodeConfigInvalid}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewMalformedPayloadError creates a non-retryable error for a payload that is missing
// required fields or carries fields of the wrong type.
func NewMalformedPayloadError(payload string, violations []Violation) *StandardError {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return &StandardError{
		Code:       ErrCodeMalformedPayload,
		Message:    "Malformed payload",
		Details:    fmt.Sprintf("payload: %s, fields: %s", payload, strings.Join(fields, ", ")),
		Retryable:  false,
		Metadata:   map[string]interface{}{"payload": payload},
		Violations: violations,
		Timestamp:  time.Now().UTC(),
	}
}

// NewInvalidJSONError creates a malformed payload error for input that is not JSON at all.
func NewInvalidJSONError(payload string, err error) *StandardError {
	return &StandardError{
		Code:       ErrCodeMalformedPayload,
		Message:    "Malformed payload",
		Details:    fmt.Sprintf("payload: %s, error: %s", payload, err.Error()),
		Retryable:  false,
		Metadata:   map[string]interface{}{"payload": payload},
		Violations: []Violation{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    ViolationInvalidJSON,
		}},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEncodeFailedError creates a non-retryable error for a value that could not be encoded.
func NewEncodeFailedError(payload, field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadEncodeFailed,
		Message:   "Payload encoding failed",
		Details:   fmt.Sprintf("payload: %s, field: %s, error: %s", payload, field, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"payload": payload, "field": field},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnknownPayloadKindError creates a non-retryable error for an unregistered payload kind.
func NewUnknownPayloadKindError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownPayloadKind,
		Message:   "Unknown payload kind",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsMalformedPayload reports whether err is a malformed payload error.
func IsMalformedPayload(err error) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == ErrCodeMalformedPayload
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeInternal:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeMalformedPayload, ErrCodePayloadEncodeFailed:
		return "payload"
	case ErrCodeUnknownPayloadKind:
		return "usage"
	case ErrCodeConfigInvalid:
		return "configuration"
	default:
		return "internal"
	}
}
