// Package apierror provides the error taxonomy shared by services and handlers,
// and the standardized error body returned to clients.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure; every Kind maps to exactly one HTTP status.
type Kind int

const (
	KindInesperado Kind = iota
	KindValidacion
	KindArgumentoInvalido
	KindReferenciaInvalida
	KindConflicto
	KindDependenciasExistentes
	KindNoEncontrado
)

func (k Kind) String() string {
	switch k {
	case KindValidacion:
		return "validacion"
	case KindArgumentoInvalido:
		return "argumento_invalido"
	case KindReferenciaInvalida:
		return "referencia_invalida"
	case KindConflicto:
		return "conflicto"
	case KindDependenciasExistentes:
		return "dependencias_existentes"
	case KindNoEncontrado:
		return "no_encontrado"
	default:
		return "inesperado"
	}
}

// Status returns the HTTP status code for a Kind.
func Status(k Kind) int {
	switch k {
	case KindValidacion, KindArgumentoInvalido, KindReferenciaInvalida, KindDependenciasExistentes:
		return http.StatusBadRequest
	case KindConflicto:
		return http.StatusConflict
	case KindNoEncontrado:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Mensaje and Detalles are safe to show to the
// client; Err keeps the underlying cause for server-side logging only.
type Error struct {
	Kind     Kind
	Mensaje  string
	Detalles []string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Mensaje, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Mensaje)
}

func (e *Error) Unwrap() error { return e.Err }

// Validacion builds a validation failure carrying every violation found.
func Validacion(msg string, detalles []string) *Error {
	return &Error{Kind: KindValidacion, Mensaje: msg, Detalles: detalles}
}

func ArgumentoInvalido(msg string) *Error {
	return &Error{Kind: KindArgumentoInvalido, Mensaje: msg}
}

func ReferenciaInvalida(msg string) *Error {
	return &Error{Kind: KindReferenciaInvalida, Mensaje: msg}
}

func Conflicto(msg string) *Error {
	return &Error{Kind: KindConflicto, Mensaje: msg}
}

func DependenciasExistentes(msg string) *Error {
	return &Error{Kind: KindDependenciasExistentes, Mensaje: msg}
}

func NoEncontrado(msg string) *Error {
	return &Error{Kind: KindNoEncontrado, Mensaje: msg}
}

// Inesperado wraps an unclassified cause. msg is the generic text the client sees.
func Inesperado(msg string, err error) *Error {
	return &Error{Kind: KindInesperado, Mensaje: msg, Err: err}
}

// From extracts an *Error from err. Anything that is not already classified
// becomes KindInesperado with the fallback message.
func From(err error, fallback string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Inesperado(fallback, err)
}

// Response is the canonical error envelope for all 4xx/5xx HTTP responses.
type Response struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func New(msg string) *Response {
	return &Response{Error: msg}
}

// Body renders e as the client-facing envelope.
func (e *Error) Body() *Response {
	return &Response{Error: e.Mensaje, Details: e.Detalles}
}
