// Package errors provides structured error types for waterx-admin
// with error codes, categories, and remediation guidance
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error codes for waterx-admin
// Format: WATERX-<CATEGORY><NUMBER>
// Categories: C=Config, N=Network, D=Data, V=Validation, S=Server, B=Bug
const (
	// Configuration errors (user fix)
	ErrCodeInvalidConfig ErrorCode = "WATERX-C001"
	ErrCodeMissingConfig ErrorCode = "WATERX-C002"
	ErrCodeNoSession     ErrorCode = "WATERX-C003"

	// Network errors
	ErrCodeNetworkFailed ErrorCode = "WATERX-N001"
	ErrCodeTimeout       ErrorCode = "WATERX-N002"

	// Data errors (bad input files or payloads)
	ErrCodeInvalidJSON   ErrorCode = "WATERX-D001"
	ErrCodeInvalidBackup ErrorCode = "WATERX-D002"
	ErrCodeFileRead      ErrorCode = "WATERX-D003"
	ErrCodeFileWrite     ErrorCode = "WATERX-D004"
	ErrCodeTooLarge      ErrorCode = "WATERX-D005"

	// Validation errors (form constraints, caught before submission)
	ErrCodeValidation ErrorCode = "WATERX-V001"

	// Server-reported errors
	ErrCodeServer       ErrorCode = "WATERX-S001"
	ErrCodeNotFound     ErrorCode = "WATERX-S002"
	ErrCodeUnauthorized ErrorCode = "WATERX-S003"
	ErrCodeRejected     ErrorCode = "WATERX-S004"

	// Internal errors (report to maintainers)
	ErrCodeInvalidState ErrorCode = "WATERX-B001"
)

// Category represents error categories
type Category string

const (
	CategoryConfig     Category = "configuration"
	CategoryNetwork    Category = "network"
	CategoryData       Category = "data"
	CategoryValidation Category = "validation"
	CategoryServer     Category = "server"
	CategoryInternal   Category = "internal"
)

// AdminError is a structured error with code, category, and remediation.
// Message is the human-readable text shown to the operator; Error() adds
// the code and any details for logs.
type AdminError struct {
	Code        ErrorCode
	Category    Category
	Message     string
	Details     string
	Remediation string
	Status      int // HTTP status for server errors, 0 otherwise
	Cause       error
}

// Error implements error interface
func (e *AdminError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += fmt.Sprintf("\n\nDetails:\n  %s", e.Details)
	}
	if e.Remediation != "" {
		msg += fmt.Sprintf("\n\nTo fix:\n  %s", e.Remediation)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *AdminError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for error comparison
func (e *AdminError) Is(target error) bool {
	if t, ok := target.(*AdminError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewConfigError creates a configuration error
func NewConfigError(code ErrorCode, message string, remediation string) *AdminError {
	return &AdminError{
		Code:        code,
		Category:    CategoryConfig,
		Message:     message,
		Remediation: remediation,
	}
}

// NewNetworkError creates a transport-level error
func NewNetworkError(message string, cause error) *AdminError {
	code := ErrCodeNetworkFailed
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		code = ErrCodeTimeout
	}
	return &AdminError{
		Code:     code,
		Category: CategoryNetwork,
		Message:  message,
		Cause:    cause,
		Remediation: `Check that the backend is reachable:
  waterx-admin config show
  curl -sS $WATERX_API_URL/api/settings/logoUrl`,
	}
}

// NewDataError creates a data error (unreadable, unparsable or malformed input)
func NewDataError(code ErrorCode, message string, cause error) *AdminError {
	return &AdminError{
		Code:     code,
		Category: CategoryData,
		Message:  message,
		Cause:    cause,
	}
}

// NewValidationError creates a form validation error
func NewValidationError(message string) *AdminError {
	return &AdminError{
		Code:     ErrCodeValidation,
		Category: CategoryValidation,
		Message:  message,
	}
}

// NewServerError creates an error reported by the backend
func NewServerError(status int, message string) *AdminError {
	code := ErrCodeServer
	switch status {
	case http.StatusNotFound:
		code = ErrCodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		code = ErrCodeUnauthorized
	case http.StatusOK:
		// 200 with success=false in the envelope
		code = ErrCodeRejected
	}
	return &AdminError{
		Code:     code,
		Category: CategoryServer,
		Message:  message,
		Status:   status,
	}
}

// NewInternalError creates an internal error (bugs, impossible transitions)
func NewInternalError(code ErrorCode, message string, cause error) *AdminError {
	return &AdminError{
		Code:        code,
		Category:    CategoryInternal,
		Message:     message,
		Cause:       cause,
		Remediation: "This appears to be a bug. Please report it with the output of: waterx-admin version",
	}
}

// WithDetails adds details to an error
func (e *AdminError) WithDetails(details string) *AdminError {
	e.Details = details
	return e
}

// WithCause adds an underlying cause
func (e *AdminError) WithCause(cause error) *AdminError {
	e.Cause = cause
	return e
}

// NoSession creates the error raised when an operation needs a logged-in user
func NoSession() *AdminError {
	return &AdminError{
		Code:     ErrCodeNoSession,
		Category: CategoryConfig,
		Message:  "User not found. Please log in again.",
		Remediation: `Record the identity assigned by the backend:
  waterx-admin login --id <employee-id> --name <name> --role admin`,
	}
}

// InvalidBackup creates the error for a backup file missing required keys
func InvalidBackup(missing []string) *AdminError {
	e := &AdminError{
		Code:     ErrCodeInvalidBackup,
		Category: CategoryData,
		Message:  "Invalid backup file format.",
	}
	if len(missing) > 0 {
		e.Details = fmt.Sprintf("Missing keys: %v", missing)
	}
	return e
}

// Message returns the operator-facing text for err: the Message of an
// AdminError, the error text otherwise, or fallback when there is nothing.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var adminErr *AdminError
	if errors.As(err, &adminErr) {
		if adminErr.Message != "" {
			return adminErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	return GetCode(err) == ErrCodeNotFound
}

// GetCategory returns the error category if available
func GetCategory(err error) Category {
	var adminErr *AdminError
	if errors.As(err, &adminErr) {
		return adminErr.Category
	}
	return ""
}

// GetCode returns the error code if available
func GetCode(err error) ErrorCode {
	var adminErr *AdminError
	if errors.As(err, &adminErr) {
		return adminErr.Code
	}
	return ""
}

// GetStatus returns the HTTP status carried by a server error, or 0
func GetStatus(err error) int {
	var adminErr *AdminError
	if errors.As(err, &adminErr) {
		return adminErr.Status
	}
	return 0
}
