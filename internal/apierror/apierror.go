// Package apierror provides standardized error response structures for the API
// and the domain error taxonomy shared by every service.
// All errors returned to clients go through this package so internal details
// (stack traces, DB errors, etc.) never leak.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Tipo   string `json:"tipo,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ── Domain taxonomy ───────────────────────────────────────────────────────────

// Kind classifies a domain failure. Every failure a service returns maps to
// exactly one kind; anything else is treated as KindInesperado.
type Kind string

const (
	KindValidacion          Kind = "validacion"
	KindNoEncontrado        Kind = "no_encontrado"
	KindStockInsuficiente   Kind = "stock_insuficiente"
	KindFondosInsuficientes Kind = "fondos_insuficientes"
	KindConflicto           Kind = "conflicto"
	KindProhibido           Kind = "prohibido"
	KindInesperado          Kind = "inesperado"
)

// Error is a classified domain error. Msg is safe to show to clients; Err
// keeps the underlying cause for logs.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func Validacion(format string, args ...any) *Error {
	return newf(KindValidacion, format, args...)
}

func NoEncontrado(format string, args ...any) *Error {
	return newf(KindNoEncontrado, format, args...)
}

func StockInsuficiente(format string, args ...any) *Error {
	return newf(KindStockInsuficiente, format, args...)
}

func FondosInsuficientes(format string, args ...any) *Error {
	return newf(KindFondosInsuficientes, format, args...)
}

func Conflicto(format string, args ...any) *Error {
	return newf(KindConflicto, format, args...)
}

func Prohibido(format string, args ...any) *Error {
	return newf(KindProhibido, format, args...)
}

// Inesperado wraps an unclassified failure (DB down, driver error).
func Inesperado(err error) *Error {
	return &Error{Kind: KindInesperado, Msg: "Error interno del servidor", Err: err}
}

// KindOf returns the kind of err, or KindInesperado when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInesperado
}

// Is reports whether err is a domain error of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidacion, KindStockInsuficiente, KindFondosInsuficientes, KindConflicto:
		return http.StatusBadRequest
	case KindNoEncontrado:
		return http.StatusNotFound
	case KindProhibido:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the response envelope for err. Unexpected errors get a
// generic message.
func FromError(err error) *APIError {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInesperado {
		return &APIError{Detail: e.Msg, Tipo: string(e.Kind)}
	}
	return &APIError{Detail: "Error interno del servidor", Tipo: string(KindInesperado)}
}
