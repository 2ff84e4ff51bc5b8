package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/estoque-api/pkg/jwt"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: "prod-1", Name: "Tornillo 3/8", ProductCode: "TOR-38", UnitPrice: decimal.RequireFromString("2.50")})
	store.AddSupplier(entity.Supplier{ID: "sup-1", SocialReason: "Ferretería Central"})
	store.AddCustomer(entity.Customer{ID: "cus-1", FullName: "Ana Pérez"})

	log := logger.Nop()
	cache := inventory.NoopStockCache{}
	status := inventory.NewStatusUseCase(store, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Lots:      inventory.NewLotUseCase(store, cache, log),
		Movements: inventory.NewMovementUseCase(store, cache, status, log),
		Reconcile: inventory.NewReconcileUseCase(store, log, 10),
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, role, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *apiFixture) createLot(t *testing.T, qty int64) string {
	t.Helper()
	var lot dto.LotResponse
	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/products/prod-1/lots", dto.CreateLotRequest{InitialQuantity: qty}, &lot)
	require.Equal(t, http.StatusCreated, status)
	return lot.ID
}

func (f *apiFixture) lotQuantity(t *testing.T, lotID string) int64 {
	t.Helper()
	var stock dto.LotStockResponse
	require.Equal(t, http.StatusOK, f.do(t, pkgjwt.RoleSeller, http.MethodGet, "/api/lots/"+lotID+"/stock", nil, &stock))
	return stock.Quantity
}

func TestRouter_CicloDeSalida(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 100)

	var exit dto.MovementResponse
	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/exits",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 30}, &exit)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "EXIT", exit.Kind)
	assert.Equal(t, "Tornillo 3/8", exit.ProductName)
	assert.Equal(t, int64(70), f.lotQuantity(t, lotID))

	qty := int64(50)
	var updated dto.MovementResponse
	status = f.do(t, pkgjwt.RoleWarehouse, http.MethodPut, "/api/exits/"+exit.ID,
		dto.UpdateMovementRequest{Quantity: &qty}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(50), updated.Quantity)
	assert.Equal(t, int64(50), f.lotQuantity(t, lotID))

	status = f.do(t, pkgjwt.RoleWarehouse, http.MethodDelete, "/api/exits/"+exit.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, int64(100), f.lotQuantity(t, lotID))

	p, ok := f.store.Product("prod-1")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.StockQuantity)
}

func TestRouter_SalidaSinSaldo_Retorna409(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 10)

	var errBody dto.ErrorResponse
	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/exits",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 15}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.Equal(t, int64(10), f.lotQuantity(t, lotID))
}

func TestRouter_EntradaSinProveedor_Retorna400(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 10)

	var errBody dto.ErrorResponse
	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/receivements",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 5}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestRouter_EliminarLoteConEntrada_Retorna409(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 10)

	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/receivements",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 5, SupplierID: "sup-1"}, nil)
	require.Equal(t, http.StatusCreated, status)

	var errBody dto.ErrorResponse
	status = f.do(t, pkgjwt.RoleAdmin, http.MethodDelete, "/api/lots/"+lotID, nil, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errBody.Code)

	_, ok := f.store.Lot(lotID)
	assert.True(t, ok, "el lote debe seguir existiendo")
}

func TestRouter_EliminarLote_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 10)

	assert.Equal(t, http.StatusForbidden, f.do(t, pkgjwt.RoleWarehouse, http.MethodDelete, "/api/lots/"+lotID, nil, nil))
	assert.Equal(t, http.StatusNoContent, f.do(t, pkgjwt.RoleAdmin, http.MethodDelete, "/api/lots/"+lotID, nil, nil))
	assert.Equal(t, http.StatusNotFound, f.do(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/lots/"+lotID, nil, nil))
}

func TestRouter_PedidoYCambioDeEstado(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)

	var order dto.MovementResponse
	status := f.do(t, pkgjwt.RoleSeller, http.MethodPost, "/api/orders",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 4, CustomerID: "cus-1", PaymentMethod: "PIX"}, &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, decimal.RequireFromString("10").Equal(order.TotalPrice))

	var changed dto.MovementResponse
	status = f.do(t, pkgjwt.RoleSeller, http.MethodPatch, "/api/orders/"+order.ID+"/status",
		dto.UpdateStatusRequest{Status: "completed"}, &changed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "COMPLETED", changed.Status)
	assert.Equal(t, int64(16), f.lotQuantity(t, lotID), "el estado no altera cantidades")

	var errBody dto.ErrorResponse
	status = f.do(t, pkgjwt.RoleSeller, http.MethodPatch, "/api/orders/"+order.ID+"/status",
		dto.UpdateStatusRequest{Status: "ENVIADO"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestRouter_PedidosDelCliente(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)

	var errBody dto.ErrorResponse
	status := f.do(t, pkgjwt.RoleSeller, http.MethodGet, "/api/orders/customer/cus-1", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status, "sin pedidos responde 404")
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	require.Equal(t, http.StatusCreated, f.do(t, pkgjwt.RoleSeller, http.MethodPost, "/api/orders",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 2, CustomerID: "cus-1", PaymentMethod: "PIX"}, nil))

	var orders []dto.MovementResponse
	require.Equal(t, http.StatusOK, f.do(t, pkgjwt.RoleSeller, http.MethodGet, "/api/orders/customer/cus-1", nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "cus-1", orders[0].CustomerID)
}

func TestRouter_TipoEquivocado_Retorna404(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)

	var exit dto.MovementResponse
	require.Equal(t, http.StatusCreated, f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/exits",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 1}, &exit))

	assert.Equal(t, http.StatusNotFound, f.do(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/orders/"+exit.ID, nil, nil))
	assert.Equal(t, http.StatusOK, f.do(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/exits/"+exit.ID, nil, nil))
}

func TestRouter_VendedorNoRegistraSalidas(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)

	status := f.do(t, pkgjwt.RoleSeller, http.MethodPost, "/api/exits",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 1}, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_ProductoInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)

	var errBody dto.ErrorResponse
	status := f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/products/no-existe/lots", dto.CreateLotRequest{InitialQuantity: 1}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestRouter_MovimientosDelLote(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/exits",
			dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 2}, nil))
	}

	var movements []dto.MovementResponse
	require.Equal(t, http.StatusOK, f.do(t, pkgjwt.RoleSeller, http.MethodGet, "/api/lots/"+lotID+"/movements", nil, &movements))
	assert.Len(t, movements, 2)
}

func TestRouter_Reconciliacion(t *testing.T) {
	f := newAPI(t)
	lotID := f.createLot(t, 20)
	require.Equal(t, http.StatusCreated, f.do(t, pkgjwt.RoleWarehouse, http.MethodPost, "/api/exits",
		dto.CreateMovementRequest{ProductID: "prod-1", LotID: lotID, Quantity: 5}, nil))

	assert.Equal(t, http.StatusForbidden, f.do(t, pkgjwt.RoleSeller, http.MethodGet, "/api/inventory/reconciliation", nil, nil))

	var report dto.ReconciliationReport
	require.Equal(t, http.StatusOK, f.do(t, pkgjwt.RoleAdmin, http.MethodGet, "/api/inventory/reconciliation", nil, &report))
	assert.Equal(t, 1, report.CheckedProducts)
	assert.Equal(t, 1, report.CheckedLots)
	assert.Empty(t, report.Drifts)
}
