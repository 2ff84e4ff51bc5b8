package inventory

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Lots      repository.StockLotRepository
	Movements repository.MovementRepository
	Suppliers repository.SupplierRepository
	Customers repository.CustomerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Un fallo de Commit se reporta como ErrStorage.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// StockCache publica saldos para lecturas rápidas. Se escribe con las filas bloqueadas.
// Es de mejor esfuerzo: la fuente de verdad sigue siendo el almacén transaccional.
type StockCache interface {
	PublishLot(ctx context.Context, lotID string, quantity int64) error
	PublishProduct(ctx context.Context, productID string, quantity int64) error
	// LotQuantity devuelve (cantidad, true) si hay valor en caché.
	LotQuantity(ctx context.Context, lotID string) (int64, bool, error)
	// Forget borra las claves del lote y del producto; un id vacío se ignora.
	Forget(ctx context.Context, lotID, productID string) error
}

// NoopStockCache no guarda nada; se usa cuando Redis no está configurado.
type NoopStockCache struct{}

func (NoopStockCache) PublishLot(context.Context, string, int64) error     { return nil }
func (NoopStockCache) PublishProduct(context.Context, string, int64) error { return nil }
func (NoopStockCache) LotQuantity(context.Context, string) (int64, bool, error) {
	return 0, false, nil
}
func (NoopStockCache) Forget(context.Context, string, string) error { return nil }
