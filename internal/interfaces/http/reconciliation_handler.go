package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
)

// ReconciliationHandler expone la auditoría de saldos.
type ReconciliationHandler struct {
	uc *inventory.ReconcileUseCase
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(uc *inventory.ReconcileUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{uc: uc}
}

// Audit godoc
// @Summary      Auditar saldos de lotes y productos
// @Description  Recalcula cada lote desde sus movimientos y compara con lo guardado. Solo lectura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationReport
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *ReconciliationHandler) Audit(c *fiber.Ctx) error {
	report, err := h.uc.Audit(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
