package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP boundary can map it to a status
// code without inspecting free-form text.
type Kind int

const (
	Validation Kind = iota
	NotFound
	InvalidCredentials
	MissingToken
	InvalidToken
	TokenReuseDetected
	SessionExpired
	SchedulingConflict
	Forbidden
	StoreFailure
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case InvalidCredentials:
		return "invalid_credentials"
	case MissingToken:
		return "missing_token"
	case InvalidToken:
		return "invalid_token"
	case TokenReuseDetected:
		return "token_reuse_detected"
	case SessionExpired:
		return "session_expired"
	case SchedulingConflict:
		return "scheduling_conflict"
	case Forbidden:
		return "forbidden"
	case StoreFailure:
		return "store_failure"
	}
	return "unknown"
}

// HTTPStatus maps a kind to its response status. TokenReuseDetected is
// deliberately distinct (403) from plain token failures (401).
func (k Kind) HTTPStatus() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case InvalidCredentials, MissingToken, InvalidToken, SessionExpired:
		return http.StatusUnauthorized
	case TokenReuseDetected, Forbidden:
		return http.StatusForbidden
	case SchedulingConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error carries a kind, a message safe to show the caller, and an optional
// wrapped cause that is only ever logged server-side.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to StoreFailure for
// anything unclassified so unknown failures never leak detail.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return StoreFailure
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// PublicMessage returns the caller-safe message for err. Server errors get
// a generic message regardless of their internal detail.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != StoreFailure {
		return ae.Message
	}
	return "internal server error"
}
