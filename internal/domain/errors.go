package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("fallo de almacenamiento")
)

// Nombres de entidad usados en EntityError.
const (
	EntityProduct  = "producto"
	EntityLot      = "lote"
	EntityMovement = "movimiento"
	EntitySupplier = "proveedor"
	EntityCustomer = "cliente"
)

// EntityError adjunta la entidad y su ID a un error de dominio.
// errors.Is(err, ErrNotFound) sigue funcionando gracias a Unwrap.
type EntityError struct {
	Entity string
	ID     string
	Reason string
	Err    error
}

func (e *EntityError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Err.Error())
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *EntityError) Unwrap() error { return e.Err }

// NotFound construye un ErrNotFound con contexto.
func NotFound(entity, id string) error {
	return &EntityError{Entity: entity, ID: id, Err: ErrNotFound}
}

// Invalid construye un ErrInvalidInput con contexto y motivo.
func Invalid(entity, id, reason string) error {
	return &EntityError{Entity: entity, ID: id, Reason: reason, Err: ErrInvalidInput}
}

// Conflict construye un ErrConflict con contexto y motivo.
func Conflict(entity, id, reason string) error {
	return &EntityError{Entity: entity, ID: id, Reason: reason, Err: ErrConflict}
}

// InsufficientStock construye un ErrInsufficientStock para un lote.
func InsufficientStock(lotID string, available, requested int64) error {
	return &EntityError{
		Entity: EntityLot,
		ID:     lotID,
		Reason: fmt.Sprintf("disponible %d, solicitado %d", available, requested),
		Err:    ErrInsufficientStock,
	}
}
