package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string code
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors (fatal: no categories to apply)
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Rule errors (contained: one category, or one category at one number)
	ErrRuleCompile ErrorCode = "RULE_COMPILE"
	ErrRuleEval    ErrorCode = "RULE_EVAL"

	// Range errors (fatal: checked before iteration starts)
	ErrRangeInvalid  ErrorCode = "RANGE_INVALID"
	ErrRangeTooLarge ErrorCode = "RANGE_TOO_LARGE"

	// Output errors
	ErrOutputCreate ErrorCode = "OUTPUT_CREATE"
	ErrOutputWrite  ErrorCode = "OUTPUT_WRITE"
)

// RangecatError represents a structured error with code and details
type RangecatError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RangecatError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RangecatError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RangecatError) Is(target error) bool {
	var targetErr *RangecatError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RangecatError with the given code and message
func New(code ErrorCode, message string) *RangecatError {
	return &RangecatError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RangecatError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RangecatError {
	return &RangecatError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RangecatError
func Wrap(err error, code ErrorCode, message string) *RangecatError {
	if err == nil {
		return nil
	}
	return &RangecatError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RangecatError {
	if err == nil {
		return nil
	}
	return &RangecatError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RangecatError) WithDetail(key string, value interface{}) *RangecatError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *RangecatError) WithDetails(details map[string]interface{}) *RangecatError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rcErr *RangecatError
	if errors.As(err, &rcErr) {
		return rcErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RangecatError
func GetErrorCode(err error) ErrorCode {
	var rcErr *RangecatError
	if errors.As(err, &rcErr) {
		return rcErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RangecatError
func GetErrorDetails(err error) map[string]interface{} {
	var rcErr *RangecatError
	if errors.As(err, &rcErr) {
		return rcErr.Details
	}
	return nil
}

// IsFatal reports whether an error should abort the run before analysis.
// Rule-scoped errors are contained and never fatal.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigNotFound, ErrConfigParse, ErrConfigInvalid,
		ErrRangeInvalid, ErrRangeTooLarge:
		return true
	default:
		return false
	}
}
