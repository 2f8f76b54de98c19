package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Rule errors
	ErrRuleInvalid       ErrorCode = "RULE_INVALID"
	ErrGlobInvalid       ErrorCode = "GLOB_INVALID"
	ErrConstraintInvalid ErrorCode = "CONSTRAINT_INVALID"

	// Extension errors
	ErrExtensionNotFound ErrorCode = "EXTENSION_NOT_FOUND"
	ErrExtensionInvalid  ErrorCode = "EXTENSION_INVALID"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// RailupError represents a structured error with code and details
type RailupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RailupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RailupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RailupError) Is(target error) bool {
	var targetErr *RailupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RailupError with the given code and message
func New(code ErrorCode, message string) *RailupError {
	return &RailupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RailupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RailupError {
	return &RailupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RailupError
func Wrap(err error, code ErrorCode, message string) *RailupError {
	if err == nil {
		return nil
	}
	return &RailupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RailupError {
	if err == nil {
		return nil
	}
	return &RailupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RailupError) WithDetail(key string, value interface{}) *RailupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rerr *RailupError
	if errors.As(err, &rerr) {
		return rerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RailupError
func GetErrorCode(err error) ErrorCode {
	var rerr *RailupError
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ErrUnknown
}
