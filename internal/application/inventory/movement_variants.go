package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// movementVariant concentra lo que cambia entre entradas, salidas y pedidos.
// El efecto sobre cantidades es común y vive en kindHandler.
type movementVariant interface {
	kind() entity.MovementKind
	// prepare valida y completa los campos propios del tipo al crear (dentro de la tx).
	prepare(ctx context.Context, r Repos, m *entity.Movement, in dto.CreateMovementRequest, lot *entity.StockLot) error
	// amend aplica los campos auxiliares de una actualización. Los que no aplican al tipo se ignoran.
	amend(m *entity.Movement, in dto.UpdateMovementRequest) error
}

type receiptVariant struct{}

func (receiptVariant) kind() entity.MovementKind { return entity.MovementKindReceipt }

func (receiptVariant) prepare(ctx context.Context, r Repos, m *entity.Movement, in dto.CreateMovementRequest, _ *entity.StockLot) error {
	supplierID := strings.TrimSpace(in.SupplierID)
	if supplierID == "" {
		return domain.Invalid(domain.EntitySupplier, "", "supplier_id es obligatorio en entradas")
	}
	supplier, err := r.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.NotFound(domain.EntitySupplier, supplierID)
	}
	m.SupplierID = supplier.ID
	m.Description = strings.TrimSpace(in.Description)
	return nil
}

func (receiptVariant) amend(m *entity.Movement, in dto.UpdateMovementRequest) error {
	if in.Description != nil {
		m.Description = strings.TrimSpace(*in.Description)
	}
	return nil
}

type exitVariant struct{}

func (exitVariant) kind() entity.MovementKind { return entity.MovementKindExit }

// prepare guarda el código del lote para poder buscar la salida por código aunque cambie el lote.
func (exitVariant) prepare(_ context.Context, _ Repos, m *entity.Movement, _ dto.CreateMovementRequest, lot *entity.StockLot) error {
	m.LotCode = lot.Code
	return nil
}

func (exitVariant) amend(*entity.Movement, dto.UpdateMovementRequest) error { return nil }

type orderVariant struct{}

func (orderVariant) kind() entity.MovementKind { return entity.MovementKindOrder }

func (orderVariant) prepare(ctx context.Context, r Repos, m *entity.Movement, in dto.CreateMovementRequest, _ *entity.StockLot) error {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return domain.Invalid(domain.EntityCustomer, "", "customer_id es obligatorio en pedidos")
	}
	method, err := parsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return err
	}
	customer, err := r.Customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.NotFound(domain.EntityCustomer, customerID)
	}
	m.CustomerID = customer.ID
	m.PaymentMethod = method
	return nil
}

func (orderVariant) amend(m *entity.Movement, in dto.UpdateMovementRequest) error {
	if in.PaymentMethod == nil {
		return nil
	}
	method, err := parsePaymentMethod(*in.PaymentMethod)
	if err != nil {
		return err
	}
	m.PaymentMethod = method
	return nil
}

// parsePaymentMethod normaliza la forma de pago; vacío equivale a ANY.
func parsePaymentMethod(s string) (entity.PaymentMethod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return entity.PaymentAny, nil
	}
	method := entity.PaymentMethod(s)
	if !method.Valid() {
		return "", domain.Invalid(domain.EntityMovement, "", "forma de pago desconocida: "+s)
	}
	return method, nil
}
