package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestCreateLot_AcreditaProducto(t *testing.T) {
	f := newFixture(t)
	lot := f.newLot(t, 100, "L-001")

	assert.Equal(t, int64(100), lot.OriginalQuantity)
	assert.Equal(t, int64(100), lot.Quantity)
	assert.Equal(t, actor, lot.CreatedBy)

	p, _ := f.store.Product(productID)
	assert.Equal(t, int64(100), p.StockQuantity)
	assert.Equal(t, int64(100), p.OriginalStockQuantity)
	assert.Equal(t, int64(100), f.cache.lots[lot.ID], "el saldo del lote se publica al crearlo")
	f.assertConsistent(t)
}

func TestCreateLot_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.lots.CreateLot(ctx, actor, productID, dto.CreateLotRequest{InitialQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := decimal.NewFromInt(-5)
	_, err = f.lots.CreateLot(ctx, actor, productID, dto.CreateLotRequest{InitialQuantity: 1, Discount: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.lots.CreateLot(ctx, actor, "no-existe", dto.CreateLotRequest{InitialQuantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.newLot(t, 5, "L-DUP")
	_, err = f.lots.CreateLot(ctx, actor, productID, dto.CreateLotRequest{InitialQuantity: 3, Code: "L-DUP"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, int64(5), f.productQty(t, productID), "los intentos rechazados no cambian el producto")
}

func TestCreateLot_CantidadCero(t *testing.T) {
	f := newFixture(t)
	lot := f.newLot(t, 0, "")
	assert.Equal(t, int64(0), lot.Quantity)
	assert.Equal(t, int64(0), f.productQty(t, productID))
}

func TestDeleteLot_ConEntradaDevuelveConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.newLot(t, 10, "")
	_, err := f.movements.CreateMovement(ctx, actor, entity.MovementKindReceipt, dto.CreateMovementRequest{
		ProductID: productID, LotID: lot.ID, Quantity: 5, SupplierID: supplierID,
	})
	require.NoError(t, err)

	err = f.lots.DeleteLot(ctx, lot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "entradas")

	assert.Equal(t, int64(15), f.lotQty(t, lot.ID), "el lote sigue existiendo")
	assert.Equal(t, int64(15), f.productQty(t, productID))
}

func TestDeleteLot_MensajePorTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	exitLot := f.newLot(t, 10, "")
	_, err := f.movements.CreateMovement(ctx, actor, entity.MovementKindExit, dto.CreateMovementRequest{ProductID: productID, LotID: exitLot.ID, Quantity: 1})
	require.NoError(t, err)
	err = f.lots.DeleteLot(ctx, exitLot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "salidas")

	orderLot := f.newLot(t, 10, "")
	_, err = f.movements.CreateMovement(ctx, actor, entity.MovementKindOrder, dto.CreateMovementRequest{ProductID: productID, LotID: orderLot.ID, Quantity: 1, CustomerID: customerID})
	require.NoError(t, err)
	err = f.lots.DeleteLot(ctx, orderLot.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "pedidos")
}

func TestDeleteLot_SinMovimientosDescuentaProducto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.newLot(t, 7, "")
	drop := f.newLot(t, 20, "L-DROP")
	f.cache.lots[drop.ID] = 20

	require.NoError(t, f.lots.DeleteLot(ctx, drop.ID))

	_, ok := f.store.Lot(drop.ID)
	assert.False(t, ok)
	p, _ := f.store.Product(productID)
	assert.Equal(t, int64(7), p.StockQuantity)
	assert.Equal(t, int64(7), p.OriginalStockQuantity)
	_, cached := f.cache.lots[drop.ID]
	assert.False(t, cached, "el lote eliminado sale de la caché")
	assert.Equal(t, int64(7), f.lotQty(t, keep.ID))

	assert.ErrorIs(t, f.lots.DeleteLot(ctx, drop.ID), domain.ErrNotFound)
	f.assertConsistent(t)
}

func TestUpdateLot_ConservaConsumido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.newLot(t, 100, "")
	_, err := f.movements.CreateMovement(ctx, actor, entity.MovementKindExit, dto.CreateMovementRequest{ProductID: productID, LotID: lot.ID, Quantity: 40})
	require.NoError(t, err)

	loc := "  Pasillo 4 "
	updated, err := f.lots.UpdateLot(ctx, actor, lot.ID, dto.UpdateLotRequest{Delta: 20, Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, int64(120), updated.OriginalQuantity)
	assert.Equal(t, int64(80), updated.Quantity)
	assert.Equal(t, int64(40), updated.Consumed)
	assert.Equal(t, "Pasillo 4", updated.Location)

	p, _ := f.store.Product(productID)
	assert.Equal(t, int64(80), p.StockQuantity)
	assert.Equal(t, int64(120), p.OriginalStockQuantity)
	f.assertConsistent(t)
}

func TestUpdateLot_NegativoNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.newLot(t, 10, "")

	_, err := f.lots.UpdateLot(ctx, actor, lot.ID, dto.UpdateLotRequest{Delta: -11})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), f.lotQty(t, lot.ID))
	assert.Equal(t, int64(10), f.productQty(t, productID))

	_, err = f.lots.UpdateLot(ctx, actor, "no-existe", dto.UpdateLotRequest{Delta: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListLotsByProduct(t *testing.T) {
	f := newFixture(t)
	f.newLot(t, 1, "A")
	f.newLot(t, 2, "B")

	lots, err := f.lots.ListLotsByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Len(t, lots, 2)

	lots, err = f.lots.ListLotsByProduct(context.Background(), otherProd)
	require.NoError(t, err)
	assert.Empty(t, lots)

	_, err = f.lots.ListLotsByProduct(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLotStock_CachePrimero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lot := f.newLot(t, 30, "")

	res, err := f.lots.GetLotStock(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "cache", res.Source)
	assert.Equal(t, int64(30), res.Quantity)

	require.NoError(t, f.cache.Forget(ctx, lot.ID, ""))
	res, err = f.lots.GetLotStock(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "store", res.Source)
	assert.Equal(t, int64(30), res.Quantity)
	assert.Equal(t, int64(30), f.cache.lots[lot.ID], "la lectura desde el almacén repuebla la caché")

	_, err = f.lots.GetLotStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommitFallido_NoDejaEstadoParcial(t *testing.T) {
	f := newFixture(t)
	f.store.FailNextCommit()

	_, err := f.lots.CreateLot(context.Background(), actor, productID, dto.CreateLotRequest{InitialQuantity: 9})
	require.ErrorIs(t, err, domain.ErrStorage)

	lots, err := f.lots.ListLotsByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Empty(t, lots)
	assert.Equal(t, int64(0), f.productQty(t, productID))
}

func TestCommitFallido_NoDejaSaldoEnCache(t *testing.T) {
	f := newFixture(t)
	f.store.FailNextCommit()

	_, err := f.lots.CreateLot(context.Background(), actor, productID, dto.CreateLotRequest{InitialQuantity: 9})
	require.ErrorIs(t, err, domain.ErrStorage)

	assert.Empty(t, f.cache.lots, "un lote no confirmado no queda publicado")
	_, cached := f.cache.products[productID]
	assert.False(t, cached)
}
