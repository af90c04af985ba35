package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a journal error code.
type ErrorCode string

const (
	ErrMissingDependency      ErrorCode = "MISSING_DEPENDENCY"      // 503
	ErrMissingInput           ErrorCode = "MISSING_INPUT"           // 404
	ErrAlreadyProcessed       ErrorCode = "ALREADY_PROCESSED"       // 409
	ErrMalformedTranscription ErrorCode = "MALFORMED_TRANSCRIPTION" // 422
	ErrIOFailure              ErrorCode = "IO_FAILURE"              // 500
	ErrNotFound               ErrorCode = "NOT_FOUND"               // 404
	ErrInvalidRequest         ErrorCode = "INVALID_REQUEST"         // 400
	ErrInternal               ErrorCode = "INTERNAL"                // 500
)

// JournalError represents a structured error with code, status, and an
// optional remedy hint shown to the user alongside the diagnosis.
type JournalError struct {
	Code    ErrorCode
	Status  int
	Message string
	Remedy  string
	Details map[string]any
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingDependency creates an error for a required external tool that is
// not on PATH. The remedy names how to install it.
func NewMissingDependency(tool, remedy string) *JournalError {
	return &JournalError{
		Code:    ErrMissingDependency,
		Status:  503,
		Message: fmt.Sprintf("required tool %q not found in PATH", tool),
		Remedy:  remedy,
		Details: map[string]any{"tool": tool},
	}
}

// NewMissingInput creates an error for a source file that does not exist.
func NewMissingInput(path string) *JournalError {
	return &JournalError{
		Code:    ErrMissingInput,
		Status:  404,
		Message: fmt.Sprintf("input file does not exist: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewAlreadyProcessed creates an error for an entry whose transcript already
// exists at the target path.
func NewAlreadyProcessed(path string) *JournalError {
	return &JournalError{
		Code:    ErrAlreadyProcessed,
		Status:  409,
		Message: fmt.Sprintf("transcript already exists: %s", path),
		Remedy:  "re-run with --force to overwrite (this discards manual notes)",
		Details: map[string]any{"path": path},
	}
}

// NewMalformedTranscription creates an error for engine output that is
// missing expected structure. Callers normally degrade instead of failing.
func NewMalformedTranscription(detail string) *JournalError {
	return &JournalError{
		Code:    ErrMalformedTranscription,
		Status:  422,
		Message: fmt.Sprintf("transcription output malformed: %s", detail),
	}
}

// NewIOFailure creates an error for a failed filesystem operation.
func NewIOFailure(op string, err error) *JournalError {
	msg := op
	if err != nil {
		msg = fmt.Sprintf("%s: %v", op, err)
	}
	return &JournalError{
		Code:    ErrIOFailure,
		Status:  500,
		Message: msg,
	}
}

// NewNotFound creates an error for a journal entry that cannot be found.
func NewNotFound(key string) *JournalError {
	return &JournalError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("journal entry not found: %s", key),
		Details: map[string]any{"key": key},
	}
}

// NewInvalidRequest creates an error for invalid parameters.
func NewInvalidRequest(msg string) *JournalError {
	return &JournalError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates an error for unexpected internal failures. The original
// error is kept in Details for logging rather than leaked in the message.
func NewInternal(err error) *JournalError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &JournalError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is reports whether err is (or wraps) a JournalError with the given code.
func Is(err error, code ErrorCode) bool {
	var jErr *JournalError
	if stderrors.As(err, &jErr) {
		return jErr.Code == code
	}
	return false
}
