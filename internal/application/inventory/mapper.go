package inventory

import (
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func toLotResponse(l *entity.StockLot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:               l.ID,
		ProductID:        l.ProductID,
		Code:             l.Code,
		Location:         l.Location,
		Discount:         l.Discount,
		OriginalQuantity: l.OriginalQuantity,
		Quantity:         l.Quantity,
		Consumed:         l.Consumed(),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		CreatedBy:        l.CreatedBy,
		UpdatedBy:        l.UpdatedBy,
	}
}

// toMovementResponse arma la respuesta con el snapshot de producto y lote.
// product y lot pueden ser nil (lote ya borrado); en ese caso se usan los datos guardados en el movimiento.
func toMovementResponse(m *entity.Movement, product *entity.Product, lot *entity.StockLot) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:            m.ID,
		Kind:          string(m.Kind),
		ProductID:     m.ProductID,
		LotID:         m.LotID,
		LotCode:       m.LotCode,
		Quantity:      m.Quantity,
		Status:        string(m.Status),
		MovementDate:  m.MovementDate,
		SupplierID:    m.SupplierID,
		Description:   m.Description,
		CustomerID:    m.CustomerID,
		PaymentMethod: string(m.PaymentMethod),
		UnitPrice:     m.UnitPrice,
		TotalPrice:    m.TotalPrice,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CreatedBy:     m.CreatedBy,
		UpdatedBy:     m.UpdatedBy,
	}
	if product != nil {
		out.ProductName = product.Name
	}
	if lot != nil && out.LotCode == "" {
		out.LotCode = lot.Code
	}
	return out
}
