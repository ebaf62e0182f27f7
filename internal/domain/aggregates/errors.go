package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across domains.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeForbidden          ErrorCode = "forbidden"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"

	// Lifecycle-specific codes surfaced to callers as-is.
	CodeInvalidAmount        ErrorCode = "invalid_amount"
	CodeAlreadyExists        ErrorCode = "already_exists"
	CodeAlreadyFinalized     ErrorCode = "already_finalized"
	CodeNoPendingTransaction ErrorCode = "no_pending_transaction"
	CodeNoPendingDeliverable ErrorCode = "no_pending_deliverable"
	CodePersistenceFailure   ErrorCode = "persistence_failure"
)

// Error carries a stable Code for callers next to the failing operation and
// a human message. Cause keeps the underlying store or domain error.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 2)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(parts) == 0 {
		return string(e.Code)
	}
	return strings.Join(parts, ": ") + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so errors.Is(err, &Error{Code: c})
// works without reaching for IsCode.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && t.Code == e.Code
}

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap tags err with code, reusing its text as the message.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return code != "" && CodeOf(err) == code
}

// Recode swaps the code of an aggregate error carrying from, leaving other
// errors untouched. Operations use it to give a generic conflict its
// domain meaning, e.g. a duplicate invitation.
func Recode(err error, from, to ErrorCode, message string) error {
	var aggErr *Error
	if !errors.As(err, &aggErr) || aggErr.Code != from {
		return err
	}
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = aggErr.Message
	}
	return &Error{Code: to, Op: aggErr.Op, Message: msg, Cause: aggErr.Cause}
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}
