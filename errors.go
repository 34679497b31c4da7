package gauge

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code for failures raised by this
// package. Modeled on the Code/Error taxonomy used for domain errors
// elsewhere in the corpus, minus the transport-specific mapping a library
// with no RPC layer has no use for.
type Code string

const (
	// CodeOutOfRange is returned when a mutation under policy ERROR would
	// push the value past a limit, or under policy ONCE the gauge is
	// already out of range.
	CodeOutOfRange Code = "OUT_OF_RANGE"

	// CodeInvalidMomentum is returned when a Momentum has since >= until
	// with neither equal to an infinity.
	CodeInvalidMomentum Code = "INVALID_MOMENTUM"

	// CodeNotFound is returned by RemoveMomentum when the momentum is not
	// a current member of the gauge.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnreachable is returned by When when the determination crosses
	// the target fewer than nth+1 times.
	CodeUnreachable Code = "UNREACHABLE"

	// CodeBadArguments is returned for malformed call-site arguments,
	// including limit cycles detected at SetRange time.
	CodeBadArguments Code = "BAD_ARGUMENTS"
)

// Error is the error type returned by this package's fallible operations.
type Error struct {
	Code    Code
	Message string

	// Count is populated by Unreachable errors from When: the number of
	// times the gauge actually reaches the target (possibly zero).
	Count int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is, or wraps, a *Error carrying the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
