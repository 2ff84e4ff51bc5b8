package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const (
	actor      = "00000000-0000-0000-0000-00000000000a"
	productID  = "prod-1"
	otherProd  = "prod-2"
	supplierID = "sup-1"
	customerID = "cus-1"
)

// fakeCache caché en memoria que registra lo publicado.
// onPublishLot, si está definido, se ejecuta antes de guardar cada saldo de lote.
type fakeCache struct {
	mu       sync.Mutex
	lots     map[string]int64
	products map[string]int64

	onPublishLot func(lotID string, quantity int64)
}

func newFakeCache() *fakeCache {
	return &fakeCache{lots: map[string]int64{}, products: map[string]int64{}}
}

func (c *fakeCache) PublishLot(_ context.Context, id string, q int64) error {
	if c.onPublishLot != nil {
		c.onPublishLot(id, q)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lots[id] = q
	return nil
}

func (c *fakeCache) PublishProduct(_ context.Context, id string, q int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[id] = q
	return nil
}

func (c *fakeCache) LotQuantity(_ context.Context, id string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.lots[id]
	return q, ok, nil
}

func (c *fakeCache) Forget(_ context.Context, lotID, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lots, lotID)
	delete(c.products, productID)
	return nil
}

type fixture struct {
	store     *memory.Store
	cache     *fakeCache
	lots      *inventory.LotUseCase
	movements *inventory.MovementUseCase
	status    *inventory.StatusUseCase
	reconcile *inventory.ReconcileUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productID, Name: "Tornillo 3/8", ProductCode: "TOR-38", UnitPrice: decimal.RequireFromString("2.50")})
	store.AddProduct(entity.Product{ID: otherProd, Name: "Tuerca", ProductCode: "TUE-01", UnitPrice: decimal.RequireFromString("1")})
	store.AddSupplier(entity.Supplier{ID: supplierID, SocialReason: "Ferretería Central"})
	store.AddCustomer(entity.Customer{ID: customerID, FullName: "Ana Pérez"})

	log := logger.Nop()
	cache := newFakeCache()
	status := inventory.NewStatusUseCase(store, log)
	return &fixture{
		store:     store,
		cache:     cache,
		lots:      inventory.NewLotUseCase(store, cache, log),
		movements: inventory.NewMovementUseCase(store, cache, status, log),
		status:    status,
		reconcile: inventory.NewReconcileUseCase(store, log, 1),
	}
}

// newLot crea un lote del producto principal con la cantidad dada.
func (f *fixture) newLot(t *testing.T, qty int64, code string) *dto.LotResponse {
	t.Helper()
	lot, err := f.lots.CreateLot(context.Background(), actor, productID, dto.CreateLotRequest{InitialQuantity: qty, Code: code})
	require.NoError(t, err)
	return lot
}

func (f *fixture) lotQty(t *testing.T, id string) int64 {
	t.Helper()
	l, ok := f.store.Lot(id)
	require.True(t, ok, "el lote %s debe existir", id)
	return l.Quantity
}

func (f *fixture) productQty(t *testing.T, id string) int64 {
	t.Helper()
	p, ok := f.store.Product(id)
	require.True(t, ok)
	return p.StockQuantity
}

// assertConsistent verifica con el auditor que no haya diferencias.
func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	report, err := f.reconcile.Audit(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Drifts, "no debe haber diferencias de stock")
}
