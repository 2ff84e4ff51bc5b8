package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos (entradas, salidas y pedidos).
// Todos los movimientos viven en un mismo almacén indexado por lote; el saldo de un lote se
// puede recalcular consultando ListByLot.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// Update persiste cantidad, precios, fecha y campos de variante. No modifica el estado.
	Update(ctx context.Context, movement *entity.Movement) error
	// UpdateStatus es la única escritura de estado; no toca cantidades.
	UpdateStatus(ctx context.Context, id string, status entity.MovementStatus, actorID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error)
	// ListByCustomer devuelve los pedidos de un cliente en orden de alta.
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Movement, error)
	ExistsByLotAndKind(ctx context.Context, lotID string, kind entity.MovementKind) (bool, error)
}
