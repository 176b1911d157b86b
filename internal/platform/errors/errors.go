// Package errors is the project error type: a machine code, a developer message,
// an optional field and per item details, plus the mapping onto HTTP. Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies errors across packages; values are stable on the wire
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic marks panics recovered by middleware or the detector pipeline
	ErrorCodePanic
	// ErrorCodeUnavailable marks missing or unreachable storage and upstreams
	ErrorCodeUnavailable
	// ErrorCodeTimeout marks outbound calls that ran out of budget
	ErrorCodeTimeout
	ErrorCodeInvalidArgument
	// ErrorCodeValidation marks rejected documents; Details carries every violation
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDB
	ErrorCodeConfig
	ErrorCodeMethodNotAllowed
)

var statusByCode = map[ErrorCode]int{
	ErrorCodeNotFound:         http.StatusNotFound,
	ErrorCodeInvalidArgument:  http.StatusUnprocessableEntity,
	ErrorCodeValidation:       http.StatusUnprocessableEntity,
	ErrorCodeJSON:             http.StatusBadRequest,
	ErrorCodeTimeout:          http.StatusGatewayTimeout,
	ErrorCodeUnavailable:      http.StatusServiceUnavailable,
	ErrorCodeConfig:           http.StatusServiceUnavailable,
	ErrorCodeMethodNotAllowed: http.StatusMethodNotAllowed,
}

// HTTPStatusCode maps a code to its response status; unlisted codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by stores for a missing id
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the structured error. Copies are cheap; the With* helpers never mutate
type Error struct {
	code    ErrorCode
	msg     string
	orig    error
	field   string
	details []string
}

// Wire is the JSON form of an error in API responses
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details []string  `json:"details,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error { return e.orig }

// Field names the offending input, if any
func (e *Error) Field() string { return e.field }

// Details returns a copy of the per item messages
func (e *Error) Details() []string { return append([]string(nil), e.details...) }

// Converter is implemented by domain errors that carry their own *Error form
type Converter interface{ Perr() error }

// As finds an *Error in err's chain, directly or through a Converter
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	var c Converter
	if stderrs.As(err, &c) && stderrs.As(c.Perr(), &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns err's code, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the response status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom renders any error for the API; foreign errors keep their text under Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field, Details: e.Details()}
}

// HTTP returns the status and wire payload for err
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatus(err), WireFrom(err)
}

// with applies fn to a copy of err's *Error; foreign errors pass through untouched
func with(err error, fn func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	fn(&c)
	return &c
}

// WithField names the offending input
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithDetails replaces the per item messages
func WithDetails(err error, details ...string) error {
	return with(err, func(e *Error) { e.details = append([]string(nil), details...) })
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig as the cause behind msg
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

// Validation carries every violation found, not just the first
func Validation(msg string, details []string) error {
	return &Error{code: ErrorCodeValidation, msg: msg, details: append([]string(nil), details...)}
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error  { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error     { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
