package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest body para POST /api/products/:productId/lots.
type CreateLotRequest struct {
	InitialQuantity int64            `json:"initial_quantity"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Code            string           `json:"code,omitempty"`
	Location        string           `json:"location,omitempty"`
}

// UpdateLotRequest body para PATCH /api/lots/:id.
// Delta corrige el saldo original (positivo o negativo); Discount y Location son opcionales.
type UpdateLotRequest struct {
	Delta    int64            `json:"delta"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Location *string          `json:"location,omitempty"`
}

// LotResponse respuesta de lote.
type LotResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Code             string          `json:"code,omitempty"`
	Location         string          `json:"location,omitempty"`
	Discount         decimal.Decimal `json:"discount"`
	OriginalQuantity int64           `json:"original_quantity"`
	Quantity         int64           `json:"quantity"`
	Consumed         int64           `json:"consumed"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	CreatedBy        string          `json:"created_by,omitempty"`
	UpdatedBy        string          `json:"updated_by,omitempty"`
}

// LotStockResponse saldo actual de un lote. Source indica si vino de "cache" o "store".
type LotStockResponse struct {
	LotID    string `json:"lot_id"`
	Quantity int64  `json:"quantity"`
	Source   string `json:"source"`
}
