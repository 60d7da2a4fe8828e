package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

// Engine error codes.
const (
	// CodeConfiguration: malformed initial state. Fatal; initialization
	// aborts.
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// CodeSchema: malformed plan (non-contiguous numbering, unknown
	// operation kind). Fatal; initialization aborts.
	CodeSchema ErrorCode = "SCHEMA"

	// CodeSequence: step applied out of order. Rejected; state unchanged.
	CodeSequence ErrorCode = "SEQUENCE"

	// CodeNavigation: navigation index outside the committed range.
	CodeNavigation ErrorCode = "NAVIGATION"

	// CodeNotInitialized: operation before a successful Initialize.
	CodeNotInitialized ErrorCode = "NOT_INITIALIZED"
)

// Error is a structured engine error with the code, the step index it
// concerns (-1 when not step-specific), and an optional cause.
type Error struct {
	Code      ErrorCode
	Message   string
	StepIndex int
	Err       error
}

func (e *Error) Error() string {
	if e.StepIndex >= 0 {
		return fmt.Sprintf("%s: %s (step=%d)", e.Code, e.Message, e.StepIndex)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, step int, msg string, cause error) *Error {
	return &Error{Code: code, Message: msg, StepIndex: step, Err: cause}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsConfigurationError reports whether err is a malformed-initial-state
// error. Uses errors.As to handle wrapped errors.
func IsConfigurationError(err error) bool { return hasCode(err, CodeConfiguration) }

// IsSchemaError reports whether err is a malformed-plan error.
func IsSchemaError(err error) bool { return hasCode(err, CodeSchema) }

// IsSequenceError reports whether err is an out-of-order apply error.
func IsSequenceError(err error) bool { return hasCode(err, CodeSequence) }

// IsNavigationError reports whether err is an out-of-range navigation
// error.
func IsNavigationError(err error) bool { return hasCode(err, CodeNavigation) }
