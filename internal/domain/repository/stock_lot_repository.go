package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// StockLotRepository define el puerto de persistencia para lotes (DIP).
// Los métodos Get* devuelven (nil, nil) si el lote no existe.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, id string) (*entity.StockLot, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockLot, error)
	GetByCode(ctx context.Context, code string) (*entity.StockLot, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLot, error)
	// UpdateQuantities persiste cantidades, descuento, ubicación y auditoría.
	UpdateQuantities(ctx context.Context, lot *entity.StockLot) error
	Delete(ctx context.Context, id string) error
}
