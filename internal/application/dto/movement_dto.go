package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/{receivements|exits|orders}.
// El lote se indica por lot_id o, si viene vacío, por lot_code.
type CreateMovementRequest struct {
	ProductID     string     `json:"product_id"`
	LotID         string     `json:"lot_id,omitempty"`
	LotCode       string     `json:"lot_code,omitempty"`
	Quantity      int64      `json:"quantity"`
	Status        string     `json:"status,omitempty"`
	MovementDate  *time.Time `json:"movement_date,omitempty"`
	SupplierID    string     `json:"supplier_id,omitempty"`    // entradas
	Description   string     `json:"description,omitempty"`    // entradas
	CustomerID    string     `json:"customer_id,omitempty"`    // pedidos
	PaymentMethod string     `json:"payment_method,omitempty"` // pedidos
}

// UpdateMovementRequest body para PUT /api/{receivements|exits|orders}/:id. Campos nil no cambian.
type UpdateMovementRequest struct {
	Quantity      *int64     `json:"quantity,omitempty"`
	Status        *string    `json:"status,omitempty"`
	MovementDate  *time.Time `json:"movement_date,omitempty"`
	Description   *string    `json:"description,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
}

// UpdateStatusRequest body para PATCH /api/{receivements|exits|orders}/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// MovementResponse movimiento con snapshot desnormalizado de producto y lote.
type MovementResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	LotID         string          `json:"lot_id"`
	LotCode       string          `json:"lot_code,omitempty"`
	Quantity      int64           `json:"quantity"`
	Status        string          `json:"status"`
	MovementDate  time.Time       `json:"movement_date"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	CustomerID    string          `json:"customer_id,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
}
