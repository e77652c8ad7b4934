package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Toda falla del motor es una de estas tres clases; la capa HTTP las traduce a 404/409/400.
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrInvalidOperation = errors.New("operación inválida")
)

// Error lleva la clase (uno de los sentinels), un mensaje para el operador y las
// referencias ofensivas (seriales, ids de línea) para que el llamador pueda actuar.
type Error struct {
	Kind    error
	Message string
	Refs    []string
}

func (e *Error) Error() string {
	if len(e.Refs) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Refs, ", "))
}

// Unwrap permite errors.Is(err, domain.ErrNotFound) etc.
func (e *Error) Unwrap() error { return e.Kind }

// NotFound construye un error de recurso inexistente.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict construye un error de unicidad; refs lista los valores duplicados.
func Conflict(message string, refs ...string) error {
	return &Error{Kind: ErrConflict, Message: message, Refs: refs}
}

// Invalid construye un error de regla de negocio.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

// InvalidRefs construye un error de regla de negocio con referencias ofensivas.
func InvalidRefs(message string, refs ...string) error {
	return &Error{Kind: ErrInvalidOperation, Message: message, Refs: refs}
}

// RefsOf devuelve las referencias de un *Error (o nil si err no es del dominio).
func RefsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Refs
	}
	return nil
}

// NotFoundRefs construye un error de inexistencia que lista los ids faltantes.
func NotFoundRefs(message string, refs ...string) error {
	return &Error{Kind: ErrNotFound, Message: message, Refs: refs}
}
