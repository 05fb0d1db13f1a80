package exitcode

import (
	"strings"

	apperrors "waterx/internal/errors"
)

// Standard exit codes following BSD sysexits.h conventions
// See: https://man.freebsd.org/cgi/man.cgi?query=sysexits
const (
	// Success - operation completed successfully
	Success = 0

	// General - general error (fallback)
	General = 1

	// UsageError - command line usage error
	UsageError = 2

	// DataError - input data was incorrect (bad backup file, invalid form value)
	DataError = 65

	// NoInput - input file did not exist or was not readable
	NoInput = 66

	// Unavailable - service unavailable (backend unreachable)
	Unavailable = 69

	// Software - internal software error
	Software = 70

	// CantCreate - can't create output file
	CantCreate = 73

	// TempFail - temporary failure, user can retry
	TempFail = 75

	// Protocol - remote error in protocol (backend rejected the request)
	Protocol = 76

	// NoPerm - permission denied
	NoPerm = 77

	// Config - configuration error
	Config = 78

	// Timeout - operation timeout
	Timeout = 124

	// Cancelled - operation cancelled by user (Ctrl+C)
	Cancelled = 130
)

// ExitWithCode returns appropriate exit code based on error type
func ExitWithCode(err error) int {
	if err == nil {
		return Success
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeTimeout:
		return Timeout
	case apperrors.ErrCodeFileRead:
		return NoInput
	case apperrors.ErrCodeFileWrite:
		return CantCreate
	case apperrors.ErrCodeUnauthorized:
		return NoPerm
	}

	switch apperrors.GetCategory(err) {
	case apperrors.CategoryNetwork:
		return Unavailable
	case apperrors.CategoryData, apperrors.CategoryValidation:
		return DataError
	case apperrors.CategoryServer:
		return Protocol
	case apperrors.CategoryConfig:
		return Config
	case apperrors.CategoryInternal:
		return Software
	}

	errMsg := strings.ToLower(err.Error())

	if contains(errMsg, "permission denied", "access denied", "unauthorized") {
		return NoPerm
	}

	if contains(errMsg, "connection refused", "could not connect", "no such host", "unknown host") {
		return Unavailable
	}

	if contains(errMsg, "no such file", "file not found", "does not exist") {
		return NoInput
	}

	if contains(errMsg, "timeout", "timed out", "deadline exceeded") {
		return Timeout
	}

	if contains(errMsg, "context canceled", "operation canceled", "cancelled") {
		return Cancelled
	}

	if contains(errMsg, "invalid config", "configuration error", "bad config") {
		return Config
	}

	if contains(errMsg, "unknown command", "unknown flag", "accepts ", "requires at least") {
		return UsageError
	}

	return General
}

// contains checks if str contains any of the given substrings
func contains(str string, substrs ...string) bool {
	for _, substr := range substrs {
		if strings.Contains(str, substr) {
			return true
		}
	}
	return false
}
