package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// lockPair bloquea (SELECT FOR UPDATE) primero el producto y después el lote.
// Todas las operaciones que tocan cantidades respetan este orden para no generar deadlocks.
func lockPair(ctx context.Context, r Repos, productID, lotID string) (*entity.Product, *entity.StockLot, error) {
	product, err := r.Products.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.NotFound(domain.EntityProduct, productID)
	}
	lot, err := r.Lots.GetByIDForUpdate(ctx, lotID)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, domain.NotFound(domain.EntityLot, lotID)
	}
	if lot.ProductID != product.ID {
		return nil, nil, domain.Invalid(domain.EntityLot, lotID, "el lote no pertenece al producto")
	}
	return product, lot, nil
}

// lockByLotID resuelve el producto dueño del lote y bloquea ambos en orden producto → lote.
func lockByLotID(ctx context.Context, r Repos, lotID string) (*entity.Product, *entity.StockLot, error) {
	peek, err := r.Lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, nil, err
	}
	if peek == nil {
		return nil, nil, domain.NotFound(domain.EntityLot, lotID)
	}
	return lockPair(ctx, r, peek.ProductID, lotID)
}

// resolveLotID devuelve el ID del lote indicado por ID o, si está vacío, por código.
func resolveLotID(ctx context.Context, r Repos, lotID, lotCode string) (string, error) {
	if lotID != "" {
		return lotID, nil
	}
	if lotCode == "" {
		return "", domain.Invalid(domain.EntityLot, "", "se requiere lot_id o lot_code")
	}
	lot, err := r.Lots.GetByCode(ctx, lotCode)
	if err != nil {
		return "", err
	}
	if lot == nil {
		return "", domain.NotFound(domain.EntityLot, lotCode)
	}
	return lot.ID, nil
}
