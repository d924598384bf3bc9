package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidState      = errors.New("estado inválido para la operación")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// BusinessError asocia un error de dominio (Kind) con el mensaje visible para el cliente.
// errors.Is(err, domain.ErrNotFound) sigue funcionando a través de Unwrap.
type BusinessError struct {
	Kind    error
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func (e *BusinessError) Unwrap() error { return e.Kind }

// NotFoundf construye un ErrNotFound con mensaje.
func NotFoundf(format string, args ...any) error {
	return &BusinessError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidInputf construye un ErrInvalidInput con mensaje.
func InvalidInputf(format string, args ...any) error {
	return &BusinessError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// InvalidStatef construye un ErrInvalidState con mensaje.
func InvalidStatef(format string, args ...any) error {
	return &BusinessError{Kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError indica que la asignación no cubre la cantidad pedida.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Requested: %d, Available: %d", e.ItemName, e.Requested, e.Available)
}

// Shortfall unidades que faltan para completar el pedido.
func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
