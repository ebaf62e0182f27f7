package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var statusByCode = map[domainagg.ErrorCode]int{
	domainagg.CodeValidation:           http.StatusBadRequest,
	domainagg.CodeInvalidAmount:        http.StatusBadRequest,
	domainagg.CodeNotFound:             http.StatusNotFound,
	domainagg.CodeForbidden:            http.StatusForbidden,
	domainagg.CodeAlreadyExists:        http.StatusConflict,
	domainagg.CodeAlreadyFinalized:     http.StatusConflict,
	domainagg.CodeConflict:             http.StatusConflict,
	domainagg.CodeInvariantViolation:   http.StatusConflict,
	domainagg.CodeNoPendingTransaction: http.StatusConflict,
	domainagg.CodeNoPendingDeliverable: http.StatusConflict,
	domainagg.CodePreconditionFailed:   http.StatusPreconditionFailed,
	domainagg.CodeRetryable:            http.StatusServiceUnavailable,
	domainagg.CodePersistenceFailure:   http.StatusInternalServerError,
	domainagg.CodeInternal:             http.StatusInternalServerError,
}

// StatusFor maps an aggregate error code onto an HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// FromError converts any service error into an *Error. Store failures keep
// their cause for logging but expose only a generic message.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var api *Error
	if errors.As(err, &api) {
		return api
	}
	var agg *domainagg.Error
	if !errors.As(err, &agg) {
		return New(http.StatusInternalServerError, string(domainagg.CodeInternal), err)
	}
	status := StatusFor(agg.Code)
	msg := strings.TrimSpace(agg.Message)
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	if msg == "" {
		msg = strings.ReplaceAll(string(agg.Code), "_", " ")
	}
	return New(status, string(agg.Code), errors.New(msg))
}
