// Package apierror defines the error taxonomy shared by all services and the
// JSON envelopes returned to clients. Internal details (stack traces, SQL
// errors) never reach the response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Kind classifies a domain failure so handlers can map it to a status code
// without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindInsufficientStock
	KindValidation
)

// Error is the typed failure raised by services. It aborts the enclosing
// transaction at the point of detection; no partial writes are retained.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStock always names the item and the quantity still available,
// so the caller can correct the request without a second lookup.
func InsufficientStock(name string, available decimal.Decimal) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Msg:  fmt.Sprintf("stock insuficiente de %q, disponible: %s", name, available.String()),
	}
}

// KindOf unwraps err and returns its Kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Status maps a domain error to the HTTP status the handler should write.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusBadRequest
	case KindConflict, KindInsufficientStock:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "error de validacion", Fields: fields}
}
