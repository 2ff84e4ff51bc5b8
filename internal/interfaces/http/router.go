package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lots      *inventory.LotUseCase
	Movements *inventory.MovementUseCase
	Reconcile *inventory.ReconcileUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)

	// Lotes
	lotHandler := NewLotHandler(deps.Lots, deps.Movements)
	products := api.Group("/products")
	products.Post("/:productId/lots", stockRoles, lotHandler.Create)
	products.Get("/:productId/lots", lotHandler.ListByProduct)

	lots := api.Group("/lots")
	lots.Get("/:id", lotHandler.GetByID)
	lots.Get("/:id/stock", lotHandler.Stock)
	lots.Get("/:id/movements", lotHandler.Movements)
	lots.Patch("/:id", stockRoles, lotHandler.Update)
	lots.Delete("/:id", adminOnly, lotHandler.Delete)

	// Movimientos: un grupo por tipo, mismas operaciones
	registerMovements(api.Group("/receivements", stockRoles), NewMovementHandler(deps.Movements, entity.MovementKindReceipt))
	registerMovements(api.Group("/exits", stockRoles), NewMovementHandler(deps.Movements, entity.MovementKindExit))
	orders := api.Group("/orders", RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleSeller))
	orderHandler := NewMovementHandler(deps.Movements, entity.MovementKindOrder)
	orders.Get("/customer/:customerId", orderHandler.ListByCustomer)
	registerMovements(orders, orderHandler)

	// Auditoría (solo admin)
	reconciliation := NewReconciliationHandler(deps.Reconcile)
	api.Get("/inventory/reconciliation", adminOnly, reconciliation.Audit)
}

func registerMovements(g fiber.Router, h *MovementHandler) {
	g.Post("/", h.Create)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Patch("/:id/status", h.UpdateStatus)
	g.Delete("/:id", h.Delete)
}
