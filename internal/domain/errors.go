package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrReferenced         = errors.New("existen registros que dependen de este recurso")
	ErrInvalidReference   = errors.New("referencia a un recurso inexistente")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrStorageUnavailable = errors.New("almacenamiento de archivos no configurado")
	ErrDuplicateSlug      = errors.New("ya existe una categoría con ese slug")
)

// ValidationError agrupa mensajes de validación por campo o por ítem.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Errors []string
}

// NewValidationError construye el error; nil si no hay mensajes.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Errors: msgs}
}

func (e *ValidationError) Error() string {
	return "validación fallida: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ConflictError conflicto con mensaje específico (ej. "no se puede eliminar la bodega por defecto").
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict construye un ConflictError.
func Conflict(msg string) error { return &ConflictError{Message: msg} }

// InvalidError entrada inválida con mensaje específico.
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string { return e.Message }

func (e *InvalidError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un InvalidError.
func Invalid(msg string) error { return &InvalidError{Message: msg} }
