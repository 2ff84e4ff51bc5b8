package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// MovementHandler expone un tipo de movimiento (entradas, salidas o pedidos) sobre HTTP.
// Las tres rutas comparten el handler; solo cambia kind.
type MovementHandler struct {
	uc   *inventory.MovementUseCase
	kind entity.MovementKind
}

// NewMovementHandler construye el handler para un tipo de movimiento.
func NewMovementHandler(uc *inventory.MovementUseCase, kind entity.MovementKind) *MovementHandler {
	return &MovementHandler{uc: uc, kind: kind}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  Entradas requieren supplier_id; pedidos requieren customer_id. Salidas y pedidos validan saldo.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "product_id, lot_id o lot_code, quantity"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivements [post]
// @Router       /api/exits [post]
// @Router       /api/orders [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateMovement(c.UserContext(), userID, h.kind, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivements/{id} [get]
// @Router       /api/exits/{id} [get]
// @Router       /api/orders/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetMovement(c.UserContext(), h.kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar movimiento
// @Description  Un cambio de cantidad ajusta lote y producto en la diferencia.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "campos a modificar"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivements/{id} [put]
// @Router       /api/exits/{id} [put]
// @Router       /api/orders/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateMovement(c.UserContext(), userID, h.kind, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del movimiento
// @Description  PENDING, COMPLETED, CANCELED o RETURNED. No altera cantidades.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.UpdateStatusRequest  true  "status"
// @Success      200  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receivements/{id}/status [patch]
// @Router       /api/exits/{id}/status [patch]
// @Router       /api/orders/{id}/status [patch]
func (h *MovementHandler) UpdateStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	handler, err := h.uc.Handler(h.kind)
	if err != nil {
		return writeError(c, err)
	}
	out, err := handler.SetStatus(c.UserContext(), userID, c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento y revertir su efecto en el stock
// @Tags         movements
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receivements/{id} [delete]
// @Router       /api/exits/{id} [delete]
// @Router       /api/orders/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteMovement(c.UserContext(), h.kind, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByCustomer godoc
// @Summary      Pedidos de un cliente
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        customerId  path  string  true  "ID del cliente"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/customer/{customerId} [get]
func (h *MovementHandler) ListByCustomer(c *fiber.Ctx) error {
	out, err := h.uc.ListOrdersByCustomer(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
