package models

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindInvalidValue         ErrorKind = "INVALID_VALUE"
	KindInvalidRange         ErrorKind = "INVALID_RANGE"
	KindInvalidSortField     ErrorKind = "INVALID_SORT_FIELD"
	KindInvalidOrder         ErrorKind = "INVALID_ORDER"
	KindInvalidIdentifier    ErrorKind = "INVALID_IDENTIFIER"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindValidation           ErrorKind = "VALIDATION_ERROR"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindForbidden            ErrorKind = "FORBIDDEN"
	KindAuthenticationFailed ErrorKind = "AUTHENTICATION_FAILED"
	KindBackendUnavailable   ErrorKind = "BACKEND_UNAVAILABLE"
)

var (
	ErrInvalidValue         = &Error{Kind: KindInvalidValue, Message: "invalid value"}
	ErrInvalidRange         = &Error{Kind: KindInvalidRange, Message: "min_price must not be greater than max_price"}
	ErrInvalidSortField     = &Error{Kind: KindInvalidSortField, Message: "invalid sort field"}
	ErrInvalidOrder         = &Error{Kind: KindInvalidOrder, Message: "order must be asc or desc"}
	ErrInvalidIdentifier    = &Error{Kind: KindInvalidIdentifier, Message: "invalid product id"}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "Forbidden"}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed, Message: "incorrect username or password"}
	ErrBackendUnavailable   = &Error{Kind: KindBackendUnavailable, Message: "backend unavailable"}
)

// Error is a classified failure. Two errors are equal under errors.Is when
// their kinds match, so callers compare against the sentinels above.
type Error struct {
	Kind    ErrorKind
	Message string
	// Field names the offending request parameter, if any.
	Field string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Public()
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Public is the message without the wrapped cause.
func (e *Error) Public() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Extensions exposes the kind and field to the GraphQL error formatter.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.Kind)}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

// WithField returns a copy of e bound to a request parameter.
func (e *Error) WithField(field, message string) *Error {
	out := *e
	out.Field = field
	if message != "" {
		out.Message = message
	}
	return &out
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	out := *e
	out.Err = cause
	return &out
}

// HTTPStatus maps the kind onto the REST status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidValue, KindInvalidRange, KindInvalidSortField, KindInvalidOrder,
		KindInvalidIdentifier, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized, KindAuthenticationFailed:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsError extracts the classified error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// AsKind returns the kind of a classified error, or "" otherwise.
func AsKind(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}
